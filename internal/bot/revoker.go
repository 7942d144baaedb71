package bot

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/rolevault/rolevault/internal/notifier"
	"github.com/rolevault/rolevault/internal/store"
	"go.uber.org/zap"
)

// RoleRevoker applies sweep instructions: it takes the expired role away from
// the member and posts to the guild's notification channel when one is set.
type RoleRevoker struct {
	session  *discordgo.Session
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewRoleRevoker(session *discordgo.Session, n notifier.Notifier, logger *zap.Logger) *RoleRevoker {
	return &RoleRevoker{session: session, notifier: n, logger: logger}
}

func (r *RoleRevoker) Revoke(instr store.RevokeInstruction) error {
	guildID := strconv.FormatInt(instr.GuildID, 10)
	userID := strconv.FormatInt(instr.UserID, 10)
	roleID := strconv.FormatInt(instr.RoleID, 10)

	if err := r.session.GuildMemberRoleRemove(guildID, userID, roleID); err != nil {
		return fmt.Errorf("remove role %s from %s: %w", roleID, userID, err)
	}

	if instr.ChannelID != nil {
		if err := r.notifier.GrantRevoked(*instr.ChannelID, instr.UserID, instr.RoleID); err != nil {
			// The role is already gone; a lost notification is not worth failing over.
			r.logger.Warn("revoke notification failed",
				zap.Int64("guild_id", instr.GuildID),
				zap.Error(err))
		}
	}
	return nil
}

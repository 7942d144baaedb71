package bot

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rolevault/rolevault/internal/codegen"
	"github.com/rolevault/rolevault/internal/store"
	"github.com/rolevault/rolevault/internal/timeutil"
	"go.uber.org/zap"
)

// createAttempts bounds the random-code retry loop. A collision on a fresh
// 16-character code is already vanishingly rare.
const createAttempts = 5

func (b *Bot) handleCreate(i *discordgo.InteractionCreate) error {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse guild id: %w", err)
	}
	opts := options(i)

	role := opts["role"].RoleValue(b.session, i.GuildID)
	outranks, err := b.botOutranks(i.GuildID, role)
	if err != nil {
		return err
	}
	if !outranks {
		return b.respond(i, embedWrong(fmt.Sprintf("My top role has to be higher than %s.", role.Mention())))
	}
	roleID, err := strconv.ParseInt(role.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse role id: %w", err)
	}

	var expiresAt *time.Time
	if opt, ok := opts["expire_in"]; ok {
		seconds, err := timeutil.ParseSeconds(opt.StringValue())
		if err != nil {
			return b.respond(i, embedWrong("Invalid expiry, try something like `2d 12h`."))
		}
		t := time.Now().Truncate(time.Second).Add(time.Duration(seconds) * time.Second)
		expiresAt = &t
	}

	var grantSeconds *int64
	if opt, ok := opts["role_duration"]; ok {
		seconds, err := timeutil.ParseSeconds(opt.StringValue())
		if err != nil {
			return b.respond(i, embedWrong("Invalid role duration, try something like `7d`."))
		}
		grantSeconds = &seconds
	}

	var maxUses *int
	if opt, ok := opts["max_uses"]; ok {
		uses := int(opt.IntValue())
		if uses < 1 {
			return b.respond(i, embedWrong("Max uses has to be at least 1."))
		}
		maxUses = &uses
	}

	codeText := ""
	random := true
	if opt, ok := opts["code"]; ok && opt.StringValue() != "" {
		codeText = opt.StringValue()
		random = false
	}

	var cfg store.GuildConfig
	for attempt := 0; attempt < createAttempts; attempt++ {
		if random {
			codeText = codegen.Generate(4)
		}
		cfg, err = b.store.CreateCode(guildID, codeText, expiresAt, maxUses, roleID, grantSeconds)
		if err == nil {
			break
		}
		if store.ErrKind(err, store.CodeAlreadyExists) {
			if random {
				continue
			}
			return b.respond(i, embedWrong("Code is already exists."))
		}
		return fmt.Errorf("create code: %w", err)
	}
	if err != nil {
		return fmt.Errorf("create code: %w", err)
	}

	expire := "`lifetime`"
	if expiresAt != nil {
		expire = fmt.Sprintf("<t:%d:R>", expiresAt.Unix())
	}
	uses := "unlimited"
	if maxUses != nil {
		uses = strconv.Itoa(*maxUses)
	}
	duration := "lifetime"
	if grantSeconds != nil {
		duration = timeutil.Period(time.Duration(*grantSeconds) * time.Second)
	}
	description := fmt.Sprintf("> ||%s||\n\nExpire: %s\nMax Uses: `%s`\nRole: %s\nDuration: `%s`",
		codeText, expire, uses, role.Mention(), duration)

	if cfg.ChannelID != nil {
		if err := b.notifier.CodeCreated(*cfg.ChannelID, codeText, roleID, expiresAt, maxUses, grantSeconds); err != nil {
			b.logger.Warn("code created notification failed", zap.Error(err))
		}
	}
	return b.respond(i, &discordgo.MessageEmbed{
		Title:       "Code has been created!",
		Description: description,
		Color:       0x738adb,
	})
}

func (b *Bot) handleRedeem(i *discordgo.InteractionCreate) error {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse guild id: %w", err)
	}
	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	codeText := options(i)["code"].StringValue()

	result, err := b.store.Redeem(guildID, codeText, userID)
	if err != nil {
		if msg, ok := codeErrorMessage(err); ok {
			return b.respond(i, embedWrong(msg))
		}
		return fmt.Errorf("redeem code: %w", err)
	}

	roleStr := strconv.FormatInt(result.Grant.RoleID, 10)
	role, err := b.session.State.Role(i.GuildID, roleStr)
	if err != nil {
		roles, rerr := b.session.GuildRoles(i.GuildID)
		if rerr != nil {
			return fmt.Errorf("load guild roles: %w", rerr)
		}
		for _, r := range roles {
			if r.ID == roleStr {
				role = r
				break
			}
		}
	}
	if role == nil {
		return b.respond(i, embedWrong("Role not found.\n> Please contact server administrator."))
	}

	outranks, err := b.botOutranks(i.GuildID, role)
	if err != nil {
		return err
	}
	if !outranks {
		return b.respond(i, embedWrong(fmt.Sprintf(
			"Unable to add role.\nMy top role has to be higher than %s.\n> Please contact server administrator.", role.Mention())))
	}
	if err := b.session.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, roleStr); err != nil {
		return fmt.Errorf("add role: %w", err)
	}

	if result.Guild.ChannelID != nil {
		if err := b.notifier.CodeRedeemed(*result.Guild.ChannelID, userID, codeText, result.Grant.RoleID, result.Grant.ExpireSeconds); err != nil {
			b.logger.Warn("redeem notification failed", zap.Error(err))
		}
	}

	duration := "lifetime"
	if result.Grant.ExpireSeconds != nil {
		duration = timeutil.Period(time.Duration(*result.Grant.ExpireSeconds) * time.Second)
	}
	return b.respond(i, &discordgo.MessageEmbed{
		Title:       "Successfully redeemed",
		Description: fmt.Sprintf("> ||%s||\n\nRole: %s\nDuration: `%s`", codeText, role.Mention(), duration),
		Color:       0x738adb,
	})
}

func (b *Bot) handleRemove(i *discordgo.InteractionCreate) error {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse guild id: %w", err)
	}
	codeText := options(i)["code"].StringValue()

	if _, err := b.store.RemoveCode(guildID, codeText); err != nil {
		if msg, ok := codeErrorMessage(err); ok {
			return b.respond(i, embedWrong(msg))
		}
		return fmt.Errorf("remove code: %w", err)
	}
	return b.respond(i, &discordgo.MessageEmbed{
		Title:       "Code has been removed",
		Description: fmt.Sprintf("> ||%s||", codeText),
		Color:       0x738adb,
	})
}

func (b *Bot) handleCode(i *discordgo.InteractionCreate) error {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse guild id: %w", err)
	}
	codeText := options(i)["code"].StringValue()

	view, err := b.store.LookupCode(guildID, codeText)
	if err != nil {
		if msg, ok := codeErrorMessage(err); ok {
			return b.respond(i, embedWrong(msg))
		}
		return fmt.Errorf("lookup code: %w", err)
	}

	expire := "`lifetime`"
	if view.ExpiresAt != nil {
		expire = fmt.Sprintf("<t:%d:R>", view.ExpiresAt.Unix())
	}
	uses := "∞"
	if view.MaxUses != nil {
		uses = strconv.Itoa(*view.MaxUses)
	}
	duration := "lifetime"
	if view.Grant.ExpireSeconds != nil {
		duration = timeutil.Period(time.Duration(*view.Grant.ExpireSeconds) * time.Second)
	}
	description := fmt.Sprintf("> ||%s||\n\nExpire: %s\nUses: `[%d/%s]`\nRole: <@&%d>\nDuration: `%s`",
		codeText, expire, view.UsesCount, uses, view.Grant.RoleID, duration)
	return b.respond(i, &discordgo.MessageEmbed{
		Title:       "Code information",
		Description: description,
		Color:       0x738adb,
	})
}

func (b *Bot) handleChannel(i *discordgo.InteractionCreate) error {
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse guild id: %w", err)
	}
	channel := options(i)["channel"].ChannelValue(b.session)
	channelID, err := strconv.ParseInt(channel.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse channel id: %w", err)
	}

	active, err := b.store.SetChannel(guildID, channelID)
	if err != nil {
		return fmt.Errorf("set channel: %w", err)
	}

	msg := fmt.Sprintf("Notifications have been disabled for <#%s>.", channel.ID)
	if active {
		msg = fmt.Sprintf("Notifications will be sent to <#%s>.", channel.ID)
	}
	return b.respond(i, &discordgo.MessageEmbed{
		Description: msg,
		Color:       0x738adb,
	})
}

// botOutranks reports whether the bot's top role sits above the given role,
// the precondition for granting or revoking it.
func (b *Bot) botOutranks(guildID string, role *discordgo.Role) (bool, error) {
	member, err := b.session.GuildMember(guildID, b.session.State.User.ID)
	if err != nil {
		return false, fmt.Errorf("load bot member: %w", err)
	}
	roles, err := b.session.GuildRoles(guildID)
	if err != nil {
		return false, fmt.Errorf("load guild roles: %w", err)
	}

	positions := map[string]int{}
	for _, r := range roles {
		positions[r.ID] = r.Position
	}
	top := 0
	for _, id := range member.Roles {
		if pos, ok := positions[id]; ok && pos > top {
			top = pos
		}
	}
	return top > role.Position, nil
}

func codeErrorMessage(err error) (string, bool) {
	var ce *store.CodeError
	if !errors.As(err, &ce) {
		return "", false
	}
	switch ce.Kind {
	case store.CodeNotFound:
		return "Code is not found.", true
	case store.CodeAlreadyExists:
		return "Code is already exists.", true
	case store.CodeFullyUsed:
		return "Code is fully used.", true
	case store.CodeExpired:
		return "Code is expired.", true
	case store.CodeAlreadyUsed:
		return "Code is already used.", true
	default:
		return "", false
	}
}

package notifier

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rolevault/rolevault/internal/timeutil"
)

const (
	colorInfo   = 0x738adb
	colorRedeem = 0xf1c40f
	colorRevoke = 0x71368a
)

// Notifier posts grant-code lifecycle events to a guild's configured channel.
// Every method takes the channel explicitly because each guild routes its own
// notifications.
type Notifier interface {
	CodeCreated(channelID int64, code string, roleID int64, expiresAt *time.Time, maxUses *int, grantSeconds *int64) error
	CodeRedeemed(channelID, userID int64, code string, roleID int64, grantSeconds *int64) error
	GrantRevoked(channelID, userID, roleID int64) error
}

type DiscordNotifier struct {
	session *discordgo.Session
}

func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{session: session}
}

func (n *DiscordNotifier) CodeCreated(channelID int64, code string, roleID int64, expiresAt *time.Time, maxUses *int, grantSeconds *int64) error {
	expire := "`lifetime`"
	if expiresAt != nil {
		expire = fmt.Sprintf("<t:%d:R>", expiresAt.Unix())
	}
	uses := "unlimited"
	if maxUses != nil {
		uses = strconv.Itoa(*maxUses)
	}
	description := fmt.Sprintf("> ||%s||\n\nExpire: %s\nMax Uses: `%s`\nRole: <@&%d>\nDuration: `%s`",
		code, expire, uses, roleID, grantDuration(grantSeconds))
	return n.send(channelID, &discordgo.MessageEmbed{
		Title:       "Code has been created!",
		Description: description,
		Color:       colorInfo,
	})
}

func (n *DiscordNotifier) CodeRedeemed(channelID, userID int64, code string, roleID int64, grantSeconds *int64) error {
	expire := "lifetime"
	if grantSeconds != nil {
		expire = fmt.Sprintf("<t:%d:R>", time.Now().Add(time.Duration(*grantSeconds)*time.Second).Unix())
	}
	description := fmt.Sprintf("> ||%s||\n\nUser: <@%d>\nRole: <@&%d>\nExpire: %s", code, userID, roleID, expire)
	return n.send(channelID, &discordgo.MessageEmbed{
		Title:       "Redeemed a code",
		Description: description,
		Color:       colorRedeem,
	})
}

func (n *DiscordNotifier) GrantRevoked(channelID, userID, roleID int64) error {
	return n.send(channelID, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("<@&%d> has been removed from <@%d>.", roleID, userID),
		Color:       colorRevoke,
	})
}

func (n *DiscordNotifier) send(channelID int64, embed *discordgo.MessageEmbed) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	_, err := n.session.ChannelMessageSendEmbed(strconv.FormatInt(channelID, 10), embed)
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}

func grantDuration(seconds *int64) string {
	if seconds == nil {
		return "lifetime"
	}
	return timeutil.Period(time.Duration(*seconds) * time.Second)
}

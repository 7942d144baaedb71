// Package bot is the Discord-facing command surface. It parses slash command
// input, calls into the store, and renders embeds; every invariant lives in
// the store, not here.
package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rolevault/rolevault/internal/notifier"
	"github.com/rolevault/rolevault/internal/store"
	"go.uber.org/zap"
)

type Bot struct {
	session  *discordgo.Session
	store    *store.Store
	notifier notifier.Notifier
	logger   *zap.Logger
}

func New(session *discordgo.Session, st *store.Store, n notifier.Notifier, logger *zap.Logger) *Bot {
	return &Bot{session: session, store: st, notifier: n, logger: logger}
}

var adminOnly = int64(discordgo.PermissionAdministrator)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:                     "create",
		Description:              "Create a code.",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        "role",
				Description: "Role the code grants",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Code text, random when omitted",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "expire_in",
				Description: "Code expiry like \"2d 12h\", lifetime when omitted",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "role_duration",
				Description: "How long the role is kept, lifetime when omitted",
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "max_uses",
				Description: "Use limit, unlimited when omitted",
			},
		},
	},
	{
		Name:        "redeem",
		Description: "Redeem a code that gives you a role.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "The code to redeem",
				Required:    true,
			},
		},
	},
	{
		Name:                     "remove",
		Description:              "Remove a code.",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "The code to remove",
				Required:    true,
			},
		},
	},
	{
		Name:                     "code",
		Description:              "Get information about a code.",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "The code to look up",
				Required:    true,
			},
		},
	},
	{
		Name:                     "channel",
		Description:              "Toggle the notification channel.",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel that receives code notifications",
				Required:    true,
			},
		},
	},
}

// Register installs the slash commands and wires the interaction dispatcher.
func (b *Bot) Register() error {
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("register command %q: %w", cmd.Name, err)
		}
	}

	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		name := i.ApplicationCommandData().Name
		var err error
		switch name {
		case "create":
			err = b.handleCreate(i)
		case "redeem":
			err = b.handleRedeem(i)
		case "remove":
			err = b.handleRemove(i)
		case "code":
			err = b.handleCode(i)
		case "channel":
			err = b.handleChannel(i)
		default:
			return
		}
		if err != nil {
			b.logger.Error("command failed", zap.String("command", name), zap.Error(err))
		}
	})
	return nil
}

// options flattens an interaction's options by name.
func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (b *Bot) respond(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func embedWrong(msg string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("**It seems something wrong** :speak_no_evil:\n%s", msg),
		Color:       0x36393f,
	}
}

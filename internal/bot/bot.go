// Package bot wires the conversation session store to Discord: slash
// commands, follow-up message handling, and the per-session control row.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/claudecord/claudecord/internal/config"
	"github.com/claudecord/claudecord/internal/content"
	"github.com/claudecord/claudecord/internal/convo"
	"github.com/claudecord/claudecord/internal/typing"
)

type Bot struct {
	logger    *slog.Logger
	cfg       config.DiscordConfig
	session   *discordgo.Session
	store     *convo.Store
	assembler *content.Assembler
	typing    *typing.Notifier
}

func New(log *slog.Logger, cfg config.DiscordConfig, store *convo.Store, assembler *content.Assembler) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		logger:    log.With(slog.String("component", "bot")),
		cfg:       cfg,
		session:   session,
		store:     store,
		assembler: assembler,
	}
	b.typing = typing.NewNotifier(log, func(channelID string) error {
		return session.ChannelTyping(channelID)
	}, 0)

	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	session.AddHandler(b.onInteractionCreate)

	return b, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("discord open connection: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		_ = b.session.Close()
		return err
	}
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	commands := commandDefinitions()

	guildIDs := b.cfg.GuildIDs
	if len(guildIDs) == 0 {
		guildIDs = []string{""} // global registration
	}
	for _, guildID := range guildIDs {
		if _, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, commands); err != nil {
			return fmt.Errorf("register commands for guild %q: %w", guildID, err)
		}
	}
	b.logger.Info("commands registered", slog.Int("guilds", len(guildIDs)))
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in",
		slog.String("username", r.User.Username),
		slog.String("user_id", r.User.ID))
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.Name != commandGroup || len(data.Options) == 0 {
			return
		}
		sub := data.Options[0]
		switch sub.Name {
		case converseCommand:
			b.handleConverse(s, i, data, sub)
		case checkPermissionsCommand:
			b.handleCheckPermissions(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleControl(s, i)
	}
}

// interactionUser returns the invoking user for both guild and DM
// interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

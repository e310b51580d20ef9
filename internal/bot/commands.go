package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/claudecord/claudecord/internal/completion"
	"github.com/claudecord/claudecord/internal/content"
	"github.com/claudecord/claudecord/internal/convo"
	"github.com/claudecord/claudecord/internal/render"
)

const (
	commandGroup            = "claude"
	converseCommand         = "converse"
	checkPermissionsCommand = "check_permissions"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	modelChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(completion.ModelChoices()))
	for _, choice := range completion.ModelChoices() {
		modelChoices = append(modelChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  choice.Name,
			Value: choice.ID,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        commandGroup,
			Description: "Claude commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        converseCommand,
					Description: "Starts a conversation with Claude.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "prompt",
							Description: "Prompt",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "system",
							Description: "System prompt to set Claude's behavior. (default: not set)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "model",
							Description: "Choose from the following Claude models. (default: Claude Opus 4.5)",
							Choices:     modelChoices,
						},
						{
							Type:        discordgo.ApplicationCommandOptionAttachment,
							Name:        "attachment",
							Description: "Attach an image (JPEG, PNG, GIF, WEBP), a PDF, or a text file (TXT, MD, CSV).",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max_tokens",
							Description: "Maximum tokens in the response. (default: 16384)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "temperature",
							Description: "(Advanced) Controls the randomness of the model. 0.0 to 1.0. (default: not set)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionNumber,
							Name:        "top_p",
							Description: "(Advanced) Nucleus sampling. 0.0 to 1.0. (default: not set)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "top_k",
							Description: "(Advanced) Limits sampling to top K tokens. (default: not set)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        checkPermissionsCommand,
					Description: "Check if bot has necessary permissions in this channel",
				},
			},
		},
	}
}

type converseOptions struct {
	Prompt      string
	System      string
	Model       string
	MaxTokens   int64
	Temperature *float64
	TopP        *float64
	TopK        *int64
	Attachments []content.Attachment
}

func parseConverseOptions(data discordgo.ApplicationCommandInteractionData, sub *discordgo.ApplicationCommandInteractionDataOption) converseOptions {
	opts := converseOptions{
		Model:     completion.DefaultModel,
		MaxTokens: completion.DefaultMaxTokens,
	}
	for _, opt := range sub.Options {
		switch opt.Name {
		case "prompt":
			opts.Prompt = opt.StringValue()
		case "system":
			opts.System = opt.StringValue()
		case "model":
			opts.Model = opt.StringValue()
		case "max_tokens":
			opts.MaxTokens = opt.IntValue()
		case "temperature":
			v := opt.FloatValue()
			opts.Temperature = &v
		case "top_p":
			v := opt.FloatValue()
			opts.TopP = &v
		case "top_k":
			v := opt.IntValue()
			opts.TopK = &v
		case "attachment":
			id, _ := opt.Value.(string)
			if data.Resolved == nil {
				continue
			}
			if att := data.Resolved.Attachments[id]; att != nil {
				opts.Attachments = append(opts.Attachments, content.Attachment{
					URL:         att.URL,
					ContentType: att.ContentType,
					Filename:    att.Filename,
				})
			}
		}
	}
	return opts
}

func (b *Bot) handleConverse(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, sub *discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	user := interactionUser(i)
	if user == nil || i.ChannelID == "" {
		return
	}
	log := b.logger.With(
		slog.String("event_id", uuid.NewString()),
		slog.String("user_id", user.ID),
		slog.String("channel_id", i.ChannelID))

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Error("defer response failed", slog.Any("error", err))
		return
	}

	// Reject before starting any observable work for a duplicate.
	if b.store.Active(i.ChannelID, user.ID) {
		b.sendErrorFollowup(s, i, "You already have an active conversation in this channel. Please finish it before starting a new one.")
		return
	}

	opts := parseConverseOptions(data, sub)

	stop := b.typing.Start(i.ChannelID)
	defer stop()

	blocks := b.assembler.BuildContent(ctx, opts.Prompt, opts.Attachments)

	session, resp, err := b.store.Start(ctx, convo.StartRequest{
		SessionID: i.ID,
		ChannelID: i.ChannelID,
		Starter:   user.ID,
		Params: convo.Params{
			Model:       opts.Model,
			System:      opts.System,
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			TopK:        opts.TopK,
		},
		Content: blocks,
	})
	if err != nil {
		log.Error("start conversation failed", slog.Any("error", err))
		if errors.Is(err, convo.ErrDuplicateSession) {
			b.sendErrorFollowup(s, i, convo.ErrDuplicateSession.Error())
			return
		}
		b.sendErrorFollowup(s, i, completion.FormatError(err))
		return
	}

	embeds := []*discordgo.MessageEmbed{summaryEmbed(opts)}
	embeds = append(embeds, unitEmbeds(render.Reasoning(resp.Reasoning), colorGrey)...)
	embeds = append(embeds, unitEmbeds(render.Response(resp.Text), colorOrange)...)

	components := controlComponents(session.ID())
	b.store.AttachControl(session.ID(), components)

	msg, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds:     embeds,
		Components: components,
	})
	if err != nil {
		log.Warn("embed followup failed, sending plain text", slog.Any("error", err))
		msg, err = s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: fallbackText("**Response:**\n", resp.Text),
		})
		if err != nil {
			log.Error("plain-text followup failed", slog.Any("error", err))
			return
		}
	}
	b.store.RegisterMessage(session.ID(), msg.ID)
	log.Info("conversation started", slog.String("session_id", session.ID()))
}

func (b *Bot) sendErrorFollowup(s *discordgo.Session, i *discordgo.InteractionCreate, description string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{errorEmbed(description)},
	}); err != nil {
		b.logger.Error("error followup failed", slog.Any("error", err))
	}
}

func (b *Bot) handleCheckPermissions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respond := func(text string) {
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: text},
		}); err != nil {
			b.logger.Error("permission check response failed", slog.Any("error", err))
		}
	}

	if i.GuildID == "" {
		respond("This command can only be used in a guild channel.")
		return
	}

	perms, err := s.State.UserChannelPermissions(s.State.User.ID, i.ChannelID)
	if err != nil {
		respond("Cannot check permissions for this channel type.")
		return
	}

	if perms&discordgo.PermissionViewChannel != 0 && perms&discordgo.PermissionReadMessageHistory != 0 {
		respond("Bot has permission to read messages and message history.")
	} else {
		respond("Bot is missing necessary permissions in this channel.")
	}
}

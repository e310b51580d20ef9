package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/claudecord/claudecord/internal/completion"
	"github.com/claudecord/claudecord/internal/content"
	"github.com/claudecord/claudecord/internal/render"
)

// onMessageCreate treats plain channel messages as follow-ups: a message is
// routed to the sender's active session in that channel, or silently ignored
// when there is none.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	session := b.store.RouteFollowup(m.ChannelID, m.Author.ID)
	if session == nil {
		return
	}

	ctx := context.Background()
	log := b.logger.With(
		slog.String("event_id", uuid.NewString()),
		slog.String("session_id", session.ID()),
		slog.String("channel_id", m.ChannelID))

	stop := b.typing.Start(m.ChannelID)
	defer stop()

	attachments := make([]content.Attachment, 0, len(m.Attachments))
	for _, att := range m.Attachments {
		attachments = append(attachments, content.Attachment{
			URL:         att.URL,
			ContentType: att.ContentType,
			Filename:    att.Filename,
		})
	}
	blocks := b.assembler.BuildContent(ctx, m.Content, attachments)

	resp, err := b.store.Continue(ctx, session, blocks)
	if err != nil {
		log.Error("continue conversation failed", slog.Any("error", err))
		b.replyError(s, m, completion.FormatError(err))
		return
	}

	units := render.Reasoning(resp.Reasoning)
	colors := make([]int, len(units))
	for i := range colors {
		colors[i] = colorGrey
	}
	responseUnits := render.Response(resp.Text)
	units = append(units, responseUnits...)
	for range responseUnits {
		colors = append(colors, colorOrange)
	}

	components, _ := b.store.ControlFor(session.ID())
	row, _ := components.([]discordgo.MessageComponent)

	for idx, u := range units {
		send := &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       u.Title,
				Description: u.Body,
				Color:       colors[idx],
			}},
		}
		if idx == 0 {
			send.Reference = m.Reference()
		}
		if idx == len(units)-1 && row != nil {
			send.Components = row
		}

		sent, err := s.ChannelMessageSendComplex(m.ChannelID, send)
		if err != nil {
			log.Warn("embed send failed, sending plain text", slog.Any("error", err))
			sent, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
				Content: fallbackText("**Response:**\n", u.Body),
			})
			if err != nil {
				log.Error("plain-text send failed", slog.Any("error", err))
				continue
			}
		}
		b.store.RegisterMessage(session.ID(), sent.ID)
	}
}

func (b *Bot) replyError(s *discordgo.Session, m *discordgo.MessageCreate, description string) {
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{errorEmbed(description)},
		Reference: m.Reference(),
	}); err != nil {
		b.logger.Error("error reply failed", slog.Any("error", err))
	}
}

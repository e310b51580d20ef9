package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/claudecord/claudecord/internal/convo"
)

const (
	controlPrefix = "claude"

	actionPause  = "pause"
	actionResume = "resume"
	actionEnd    = "end"
)

// controlComponents builds the pause/resume/end button row attached to every
// session message. The session ID travels in the custom ID so a click can be
// resolved without message-side state.
func controlComponents(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Pause",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%s:%s:%s", controlPrefix, actionPause, sessionID),
				},
				discordgo.Button{
					Label:    "Resume",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%s:%s:%s", controlPrefix, actionResume, sessionID),
				},
				discordgo.Button{
					Label:    "End",
					Style:    discordgo.DangerButton,
					CustomID: fmt.Sprintf("%s:%s:%s", controlPrefix, actionEnd, sessionID),
				},
			},
		},
	}
}

func parseControlID(customID string) (action, sessionID string, ok bool) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != controlPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func (b *Bot) handleControl(s *discordgo.Session, i *discordgo.InteractionCreate) {
	action, sessionID, ok := parseControlID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}

	respond := func(text string) {
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: text,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		}); err != nil {
			b.logger.Error("control response failed", slog.Any("error", err))
		}
	}

	session, ok := b.store.Get(sessionID)
	if !ok {
		respond("This conversation has already ended.")
		return
	}
	if session.Starter() != user.ID {
		respond("Only the person who started this conversation can control it.")
		return
	}

	var err error
	var reply string
	switch action {
	case actionPause:
		err = b.store.Pause(sessionID)
		reply = "Conversation paused. Follow-up messages will be ignored until you resume."
	case actionResume:
		err = b.store.Resume(sessionID)
		reply = "Conversation resumed."
	case actionEnd:
		err = b.store.End(sessionID)
		reply = "Conversation ended."
	default:
		return
	}
	if err != nil {
		if errors.Is(err, convo.ErrNoSession) {
			respond("This conversation has already ended.")
			return
		}
		b.logger.Error("control action failed",
			slog.String("action", action),
			slog.String("session_id", sessionID),
			slog.Any("error", err))
		respond("Something went wrong, please try again.")
		return
	}
	respond(reply)
}

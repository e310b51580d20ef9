package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/claudecord/claudecord/internal/render"
)

const (
	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorRed    = 0xe74c3c
	colorGrey   = 0x95a5a6

	maxErrorLength    = 4000
	maxFallbackLength = 1900
)

func summaryEmbed(opts converseOptions) *discordgo.MessageEmbed {
	var params strings.Builder
	fmt.Fprintf(&params, "Model: %s\nMax tokens: %d", opts.Model, opts.MaxTokens)
	if opts.Temperature != nil {
		fmt.Fprintf(&params, "\nTemperature: %g", *opts.Temperature)
	}
	if opts.TopP != nil {
		fmt.Fprintf(&params, "\nTop P: %g", *opts.TopP)
	}
	if opts.TopK != nil {
		fmt.Fprintf(&params, "\nTop K: %d", *opts.TopK)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Prompt", Value: render.Truncate(opts.Prompt, 2000)},
	}
	if opts.System != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "System", Value: render.Truncate(opts.System, 500),
		})
	}
	for _, att := range opts.Attachments {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Attachment", Value: att.Filename,
		})
	}
	fields = append(fields, &discordgo.MessageEmbedField{
		Name: "Parameters", Value: params.String(),
	})

	return &discordgo.MessageEmbed{
		Title:  "Conversation Started",
		Color:  colorGreen,
		Fields: fields,
	}
}

func unitEmbeds(units []render.Unit, color int) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(units))
	for _, u := range units {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       u.Title,
			Description: u.Body,
			Color:       color,
		})
	}
	return embeds
}

func errorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: render.Truncate(description, maxErrorLength),
		Color:       colorRed,
	}
}

// fallbackText builds the plain-text body used when sending embeds fails.
func fallbackText(prefix, text string) string {
	return prefix + render.Truncate(text, maxFallbackLength-len(prefix))
}

package bot

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/claudecord/claudecord/internal/completion"
	"github.com/claudecord/claudecord/internal/render"
)

func TestParseConverseOptionsDefaults(t *testing.T) {
	t.Parallel()

	sub := &discordgo.ApplicationCommandInteractionDataOption{
		Name: converseCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "prompt", Type: discordgo.ApplicationCommandOptionString, Value: "hello"},
		},
	}

	opts := parseConverseOptions(discordgo.ApplicationCommandInteractionData{}, sub)
	if opts.Prompt != "hello" {
		t.Fatalf("prompt = %q, want %q", opts.Prompt, "hello")
	}
	if opts.Model != completion.DefaultModel {
		t.Fatalf("model = %q, want default %q", opts.Model, completion.DefaultModel)
	}
	if opts.MaxTokens != completion.DefaultMaxTokens {
		t.Fatalf("max tokens = %d, want default %d", opts.MaxTokens, completion.DefaultMaxTokens)
	}
	if opts.Temperature != nil || opts.TopP != nil || opts.TopK != nil {
		t.Fatal("sampling parameters should be unset by default")
	}
	if len(opts.Attachments) != 0 {
		t.Fatalf("attachments = %d, want none", len(opts.Attachments))
	}
}

func TestParseConverseOptionsFull(t *testing.T) {
	t.Parallel()

	data := discordgo.ApplicationCommandInteractionData{
		Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
			Attachments: map[string]*discordgo.MessageAttachment{
				"att-1": {
					URL:         "https://cdn.example.com/chart.png",
					ContentType: "image/png",
					Filename:    "chart.png",
				},
			},
		},
	}
	sub := &discordgo.ApplicationCommandInteractionDataOption{
		Name: converseCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "prompt", Type: discordgo.ApplicationCommandOptionString, Value: "describe the chart"},
			{Name: "system", Type: discordgo.ApplicationCommandOptionString, Value: "be terse"},
			{Name: "model", Type: discordgo.ApplicationCommandOptionString, Value: "claude-sonnet-4-5-20250929"},
			{Name: "max_tokens", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(2048)},
			{Name: "temperature", Type: discordgo.ApplicationCommandOptionNumber, Value: 0.7},
			{Name: "top_p", Type: discordgo.ApplicationCommandOptionNumber, Value: 0.9},
			{Name: "top_k", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(40)},
			{Name: "attachment", Type: discordgo.ApplicationCommandOptionAttachment, Value: "att-1"},
		},
	}

	opts := parseConverseOptions(data, sub)
	if opts.System != "be terse" {
		t.Fatalf("system = %q", opts.System)
	}
	if opts.Model != "claude-sonnet-4-5-20250929" {
		t.Fatalf("model = %q", opts.Model)
	}
	if opts.MaxTokens != 2048 {
		t.Fatalf("max tokens = %d, want 2048", opts.MaxTokens)
	}
	if opts.Temperature == nil || *opts.Temperature != 0.7 {
		t.Fatalf("temperature = %v, want 0.7", opts.Temperature)
	}
	if opts.TopP == nil || *opts.TopP != 0.9 {
		t.Fatalf("top_p = %v, want 0.9", opts.TopP)
	}
	if opts.TopK == nil || *opts.TopK != 40 {
		t.Fatalf("top_k = %v, want 40", opts.TopK)
	}
	if len(opts.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(opts.Attachments))
	}
	if opts.Attachments[0].Filename != "chart.png" || opts.Attachments[0].ContentType != "image/png" {
		t.Fatalf("unexpected attachment %+v", opts.Attachments[0])
	}
}

func TestParseConverseOptionsUnresolvedAttachment(t *testing.T) {
	t.Parallel()

	sub := &discordgo.ApplicationCommandInteractionDataOption{
		Name: converseCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "prompt", Type: discordgo.ApplicationCommandOptionString, Value: "hi"},
			{Name: "attachment", Type: discordgo.ApplicationCommandOptionAttachment, Value: "missing"},
		},
	}

	opts := parseConverseOptions(discordgo.ApplicationCommandInteractionData{}, sub)
	if len(opts.Attachments) != 0 {
		t.Fatalf("attachments = %d, want none for unresolved ID", len(opts.Attachments))
	}
}

func TestCommandDefinitions(t *testing.T) {
	t.Parallel()

	defs := commandDefinitions()
	if len(defs) != 1 || defs[0].Name != commandGroup {
		t.Fatalf("unexpected top-level commands %+v", defs)
	}
	subs := defs[0].Options
	if len(subs) != 2 {
		t.Fatalf("subcommands = %d, want 2", len(subs))
	}
	if subs[0].Name != converseCommand || subs[1].Name != checkPermissionsCommand {
		t.Fatalf("subcommand names = %q, %q", subs[0].Name, subs[1].Name)
	}

	var prompt, model *discordgo.ApplicationCommandOption
	for _, opt := range subs[0].Options {
		switch opt.Name {
		case "prompt":
			prompt = opt
		case "model":
			model = opt
		}
	}
	if prompt == nil || !prompt.Required {
		t.Fatal("prompt option must exist and be required")
	}
	if model == nil || len(model.Choices) != len(completion.ModelChoices()) {
		t.Fatal("model option must carry every model choice")
	}
}

func TestControlComponentsRoundTrip(t *testing.T) {
	t.Parallel()

	row, ok := controlComponents("sess-42")[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatal("first component is not an actions row")
	}
	wantActions := []string{actionPause, actionResume, actionEnd}
	if len(row.Components) != len(wantActions) {
		t.Fatalf("buttons = %d, want %d", len(row.Components), len(wantActions))
	}
	for idx, comp := range row.Components {
		button, ok := comp.(discordgo.Button)
		if !ok {
			t.Fatalf("component %d is not a button", idx)
		}
		action, sessionID, ok := parseControlID(button.CustomID)
		if !ok {
			t.Fatalf("custom ID %q did not parse", button.CustomID)
		}
		if action != wantActions[idx] {
			t.Fatalf("action = %q, want %q", action, wantActions[idx])
		}
		if sessionID != "sess-42" {
			t.Fatalf("session ID = %q, want sess-42", sessionID)
		}
	}
}

func TestParseControlIDRejectsForeignIDs(t *testing.T) {
	t.Parallel()

	for _, customID := range []string{"", "claude:pause", "other:pause:sess-1", "claude"} {
		if _, _, ok := parseControlID(customID); ok {
			t.Fatalf("parseControlID(%q) accepted", customID)
		}
	}
}

func TestSummaryEmbed(t *testing.T) {
	t.Parallel()

	temp := 0.5
	embed := summaryEmbed(converseOptions{
		Prompt:      strings.Repeat("p", 2100),
		System:      "sys",
		Model:       completion.DefaultModel,
		MaxTokens:   completion.DefaultMaxTokens,
		Temperature: &temp,
	})
	if embed.Color != colorGreen {
		t.Fatalf("color = %#x, want %#x", embed.Color, colorGreen)
	}
	if got := len(embed.Fields[0].Value); got != 2003 {
		t.Fatalf("prompt field length = %d, want truncated 2003", got)
	}

	params := embed.Fields[len(embed.Fields)-1].Value
	if !strings.Contains(params, completion.DefaultModel) {
		t.Fatalf("parameters field %q missing model", params)
	}
	if !strings.Contains(params, "Temperature: 0.5") {
		t.Fatalf("parameters field %q missing temperature", params)
	}
	if strings.Contains(params, "Top P") || strings.Contains(params, "Top K") {
		t.Fatalf("parameters field %q lists unset options", params)
	}
}

func TestErrorEmbedTruncates(t *testing.T) {
	t.Parallel()

	embed := errorEmbed(strings.Repeat("e", 5000))
	if embed.Color != colorRed {
		t.Fatalf("color = %#x, want %#x", embed.Color, colorRed)
	}
	if got := len(embed.Description); got != maxErrorLength+3 {
		t.Fatalf("description length = %d, want %d", got, maxErrorLength+3)
	}
}

func TestFallbackTextBounded(t *testing.T) {
	t.Parallel()

	text := fallbackText("**Response:**\n", strings.Repeat("x", 4000))
	if len(text) > maxFallbackLength+3 {
		t.Fatalf("fallback length = %d, exceeds bound", len(text))
	}
	if !strings.HasPrefix(text, "**Response:**\n") {
		t.Fatalf("fallback missing prefix: %q", text[:20])
	}

	short := fallbackText("**Response:**\n", "hi")
	if short != "**Response:**\nhi" {
		t.Fatalf("short fallback = %q", short)
	}
}

func TestUnitEmbeds(t *testing.T) {
	t.Parallel()

	units := []render.Unit{
		{Title: "Response", Body: "first"},
		{Title: "Response (Part 2)", Body: "second"},
	}
	embeds := unitEmbeds(units, colorOrange)
	if len(embeds) != 2 {
		t.Fatalf("embeds = %d, want 2", len(embeds))
	}
	if embeds[1].Title != "Response (Part 2)" || embeds[1].Description != "second" {
		t.Fatalf("unexpected embed %+v", embeds[1])
	}
	if embeds[0].Color != colorOrange {
		t.Fatalf("color = %#x, want %#x", embeds[0].Color, colorOrange)
	}
}

package completion

// DefaultMaxTokens bounds the generated output when the user does not pick
// their own limit.
const DefaultMaxTokens = 16384

// DefaultModel is the flagship model offered when no choice is made.
const DefaultModel = "claude-opus-4-5-20251101"

// ModelChoice pairs a display name with the model identifier sent on the
// wire.
type ModelChoice struct {
	Name string
	ID   string
}

// ModelChoices is the enumerated model list offered by the start-conversation
// command, flagship first.
func ModelChoices() []ModelChoice {
	return []ModelChoice{
		{Name: "Claude Opus 4.5", ID: "claude-opus-4-5-20251101"},
		{Name: "Claude Sonnet 4.5", ID: "claude-sonnet-4-5-20250514"},
		{Name: "Claude Sonnet 4", ID: "claude-sonnet-4-20250514"},
		{Name: "Claude Haiku 3.5", ID: "claude-haiku-3-5-20241022"},
		{Name: "Claude 3.5 Sonnet", ID: "claude-3-5-sonnet-20241022"},
		{Name: "Claude 3.5 Haiku", ID: "claude-3-5-haiku-20241022"},
		{Name: "Claude 3 Opus", ID: "claude-3-opus-20240229"},
		{Name: "Claude 3 Sonnet", ID: "claude-3-sonnet-20240229"},
		{Name: "Claude 3 Haiku", ID: "claude-3-haiku-20240307"},
	}
}

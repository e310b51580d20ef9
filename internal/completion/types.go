// Package completion wraps the remote Claude completion API behind a small
// request/response boundary.
package completion

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/claudecord/claudecord/internal/content"
)

// Role tags one turn of a conversation transcript.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged, ordered list of content blocks. Turns are
// immutable once appended to a session.
type Turn struct {
	Role    Role
	Content []content.Block
}

// UserTurn builds a user turn from content blocks.
func UserTurn(blocks []content.Block) Turn {
	return Turn{Role: RoleUser, Content: blocks}
}

// AssistantTurn builds an assistant turn carrying plain text.
func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Content: []content.Block{content.TextBlock(text)}}
}

// Request is one completion call: the full accumulated transcript plus the
// session's sampling parameters.
type Request struct {
	Model       string     `validate:"required"`
	MaxTokens   int64      `validate:"required,gt=0"`
	Turns       []Turn     `validate:"required,min=1"`
	System      string     `validate:"-"`
	Temperature *float64   `validate:"omitempty,gte=0,lte=1"`
	TopP        *float64   `validate:"omitempty,gte=0,lte=1"`
	TopK        *int64     `validate:"omitempty,gte=1"`
}

var validate = validator.New()

// Validate checks the request's parameter bounds before it is sent.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid completion request: %w", err)
	}
	return nil
}

// Response carries the generated text and, when the model produced it, the
// auxiliary reasoning text.
type Response struct {
	Text      string
	Reasoning string
}

// Client is the remote completion boundary.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// APIError is a typed failure from the remote API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion failed (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return "completion failed: " + e.Message
}

// FormatError renders a completion failure for user-facing display: the
// human message first, then a machine status line when one is known.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "The request to the model failed."
		}
		if apiErr.StatusCode != 0 {
			return fmt.Sprintf("%s\n\nStatus: %d", msg, apiErr.StatusCode)
		}
		return msg
	}

	return err.Error()
}

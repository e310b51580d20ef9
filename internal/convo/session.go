// Package convo owns the in-memory conversation sessions: one multi-turn
// exchange per (starter, channel), the transcript sent to the completion
// API, and the routing indices that tie rendered messages and UI controls
// back to their session.
package convo

import (
	"sync"
	"sync/atomic"

	"github.com/claudecord/claudecord/internal/completion"
)

// Params is a session's fixed parameter set, chosen at start time.
type Params struct {
	Model       string
	System      string
	MaxTokens   int64
	Temperature *float64
	TopP        *float64
	TopK        *int64
}

// Session is one ongoing exchange between a single user and the model,
// scoped to one channel. The turn mutex serializes Continue calls per
// session; discordgo dispatches handlers on separate goroutines, so two
// follow-ups for the same session can otherwise race.
type Session struct {
	id        string
	channelID string
	starter   string
	params    Params

	mu     sync.Mutex // guards turns and in-flight completion ordering
	turns  []completion.Turn
	paused atomic.Bool
}

func (s *Session) ID() string        { return s.id }
func (s *Session) ChannelID() string { return s.channelID }
func (s *Session) Starter() string   { return s.starter }
func (s *Session) Params() Params    { return s.params }

func (s *Session) Paused() bool { return s.paused.Load() }

func (s *Session) setPaused(v bool) { s.paused.Store(v) }

// TurnCount returns the current transcript length.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []completion.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]completion.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// completionRequest builds the request for the accumulated transcript.
// Callers must hold s.mu.
func (s *Session) completionRequest() completion.Request {
	turns := make([]completion.Turn, len(s.turns))
	copy(turns, s.turns)
	return completion.Request{
		Model:       s.params.Model,
		MaxTokens:   s.params.MaxTokens,
		Turns:       turns,
		System:      s.params.System,
		Temperature: s.params.Temperature,
		TopP:        s.params.TopP,
		TopK:        s.params.TopK,
	}
}

package convo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claudecord/claudecord/internal/completion"
	"github.com/claudecord/claudecord/internal/content"
)

var (
	// ErrDuplicateSession rejects a start while the same user already has
	// an active session in the same channel.
	ErrDuplicateSession = errors.New("an active conversation already exists for this user in this channel")

	// ErrNoSession reports an operation against an unknown session ID.
	ErrNoSession = errors.New("no such conversation")
)

// Control is the opaque interactive-control handle bound to a session. The
// store only keeps and returns it so renders can reattach the same control.
type Control any

// StartRequest carries everything needed to open a session. The session ID
// is assigned by the platform (the originating interaction's ID) and never
// generated here.
type StartRequest struct {
	SessionID string
	ChannelID string
	Starter   string
	Params    Params
	Content   []content.Block
}

// Store owns every active session and both routing indices.
type Store struct {
	logger *slog.Logger
	client completion.Client

	mu           sync.RWMutex
	sessions     map[string]*Session
	messageIndex map[string]string // rendered message ID -> session ID
	controls     map[string]Control
}

func NewStore(log *slog.Logger, client completion.Client) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		logger:       log.With(slog.String("component", "convo")),
		client:       client,
		sessions:     make(map[string]*Session),
		messageIndex: make(map[string]string),
		controls:     make(map[string]Control),
	}
}

// Start opens a new session: it rejects duplicates for the (starter,
// channel) pair, runs the first completion synchronously, and only on
// success registers the session seeded with the user and assistant turns.
func (st *Store) Start(ctx context.Context, req StartRequest) (*Session, completion.Response, error) {
	if req.SessionID == "" {
		return nil, completion.Response{}, fmt.Errorf("start: session ID is required")
	}
	if st.findActive(req.ChannelID, req.Starter, false) != nil {
		return nil, completion.Response{}, ErrDuplicateSession
	}

	session := &Session{
		id:        req.SessionID,
		channelID: req.ChannelID,
		starter:   req.Starter,
		params:    req.Params,
		turns:     []completion.Turn{completion.UserTurn(req.Content)},
	}

	session.mu.Lock()
	creq := session.completionRequest()
	session.mu.Unlock()

	resp, err := st.client.Complete(ctx, creq)
	if err != nil {
		return nil, completion.Response{}, fmt.Errorf("start conversation: %w", err)
	}
	session.turns = append(session.turns, completion.AssistantTurn(resp.Text))

	st.mu.Lock()
	defer st.mu.Unlock()
	// Re-check under the write lock: two concurrent starts for the same
	// pair would otherwise both pass the early check.
	for _, existing := range st.sessions {
		if existing.channelID == req.ChannelID && existing.starter == req.Starter {
			return nil, completion.Response{}, ErrDuplicateSession
		}
	}
	st.sessions[req.SessionID] = session

	st.logger.Info("conversation started",
		slog.String("session_id", req.SessionID),
		slog.String("channel_id", req.ChannelID),
		slog.String("starter", req.Starter),
		slog.String("model", req.Params.Model))
	return session, resp, nil
}

// RouteFollowup finds the session a follow-up message belongs to: same
// channel, authored by the session's starter, and not paused. The pause
// check happens here, before the caller starts any observable work. A nil
// return means the message is silently ignored.
func (st *Store) RouteFollowup(channelID, authorID string) *Session {
	return st.findActive(channelID, authorID, true)
}

// Active reports whether starter already has a session, paused or not, in
// the channel.
func (st *Store) Active(channelID, starter string) bool {
	return st.findActive(channelID, starter, false) != nil
}

func (st *Store) findActive(channelID, starter string, skipPaused bool) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.sessions {
		if s.channelID != channelID || s.starter != starter {
			continue
		}
		if skipPaused && s.Paused() {
			return nil
		}
		return s
	}
	return nil
}

// Continue appends the user turn, runs a completion over the entire
// accumulated history, and appends the assistant turn on success. On
// failure the user turn stays appended: the transcript must reflect exactly
// what was sent, and a failed completion still costs its turn slot.
// Calls for the same session are serialized by the session mutex.
func (st *Store) Continue(ctx context.Context, s *Session, blocks []content.Block) (completion.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, completion.UserTurn(blocks))

	resp, err := st.client.Complete(ctx, s.completionRequest())
	if err != nil {
		return completion.Response{}, fmt.Errorf("continue conversation: %w", err)
	}

	s.turns = append(s.turns, completion.AssistantTurn(resp.Text))
	st.logger.Debug("conversation continued",
		slog.String("session_id", s.id),
		slog.Int("turns", len(s.turns)))
	return resp, nil
}

// RegisterMessage records a rendered platform message as belonging to a
// session; called for the initial reply and every follow-up chunk.
func (st *Store) RegisterMessage(sessionID, messageID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.messageIndex[messageID] = sessionID
}

// SessionForMessage resolves a rendered message back to its session ID.
// Entries for ended sessions resolve to ok=false.
func (st *Store) SessionForMessage(messageID string) (string, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	id, ok := st.messageIndex[messageID]
	if !ok {
		return "", false
	}
	if _, live := st.sessions[id]; !live {
		return "", false
	}
	return id, true
}

// AttachControl binds the interactive control handle to a session.
func (st *Store) AttachControl(sessionID string, ctrl Control) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[sessionID]; ok {
		st.controls[sessionID] = ctrl
	}
}

// ControlFor returns the control handle bound to a session, if any.
func (st *Store) ControlFor(sessionID string) (Control, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ctrl, ok := st.controls[sessionID]
	return ctrl, ok
}

// Get returns a live session by ID.
func (st *Store) Get(sessionID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[sessionID]
	return s, ok
}

// Pause stops follow-up routing for the session until Resume.
func (st *Store) Pause(sessionID string) error { return st.setPaused(sessionID, true) }

// Resume re-enables follow-up routing for the session.
func (st *Store) Resume(sessionID string) error { return st.setPaused(sessionID, false) }

func (st *Store) setPaused(sessionID string, paused bool) error {
	st.mu.RLock()
	s, ok := st.sessions[sessionID]
	st.mu.RUnlock()
	if !ok {
		return ErrNoSession
	}
	s.setPaused(paused)
	st.logger.Info("conversation pause state changed",
		slog.String("session_id", sessionID),
		slog.Bool("paused", paused))
	return nil
}

// End removes the session and its control handle. Message-index entries are
// left behind on purpose; they resolve to unknown from now on, and no
// further completions route through a removed session.
func (st *Store) End(sessionID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[sessionID]; !ok {
		return ErrNoSession
	}
	delete(st.sessions, sessionID)
	delete(st.controls, sessionID)
	st.logger.Info("conversation ended", slog.String("session_id", sessionID))
	return nil
}

// SessionInfo is a read-only snapshot for the ops endpoint.
type SessionInfo struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Starter   string `json:"starter"`
	Turns     int    `json:"turns"`
	Paused    bool   `json:"paused"`
}

// Stats snapshots every active session.
func (st *Store) Stats() []SessionInfo {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			ID:        s.id,
			ChannelID: s.channelID,
			Starter:   s.starter,
			Turns:     s.TurnCount(),
			Paused:    s.Paused(),
		})
	}
	return infos
}

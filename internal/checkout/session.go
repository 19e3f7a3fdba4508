package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/enums"
	redisclient "github.com/campuscart/campuscart-backend/pkg/redis"
)

// LineState is the checkout sub-state of one selected cart line.
type LineState struct {
	PaymentMethod *enums.PaymentMethod `json:"payment_method,omitempty"`
	ReceiptURL    *string              `json:"receipt_url,omitempty"`
}

// Session is a user's in-progress checkout: which lines are selected and the
// payment state per line. It lives in Redis so it survives page reloads but
// expires on its own.
type Session struct {
	// Selected preserves selection order; submission processes lines in this order.
	Selected []uuid.UUID             `json:"selected"`
	Lines    map[uuid.UUID]LineState `json:"lines"`
}

func newSession() *Session {
	return &Session{Selected: []uuid.UUID{}, Lines: map[uuid.UUID]LineState{}}
}

// IsSelected reports whether the line is in the selection set.
func (s *Session) IsSelected(lineID uuid.UUID) bool {
	for _, id := range s.Selected {
		if id == lineID {
			return true
		}
	}
	return false
}

// Toggle adds the line if absent and removes it if present.
func (s *Session) Toggle(lineID uuid.UUID) {
	if s.IsSelected(lineID) {
		s.Drop(lineID)
		return
	}
	s.Selected = append(s.Selected, lineID)
}

// Drop removes the line from the selection and clears its payment state.
func (s *Session) Drop(lineID uuid.UUID) {
	kept := s.Selected[:0]
	for _, id := range s.Selected {
		if id != lineID {
			kept = append(kept, id)
		}
	}
	s.Selected = kept
	delete(s.Lines, lineID)
}

type sessionBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	CheckoutSessionKey(userID string) string
}

// SessionStore persists checkout sessions in Redis with a configured TTL.
type SessionStore struct {
	backend sessionBackend
	keyer   sessionKeyer
	ttl     time.Duration
}

// NewSessionStore constructs a Redis-backed checkout session store.
func NewSessionStore(client *redisclient.Client, cfg config.CheckoutConfig) (*SessionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("checkout session ttl must be positive")
	}
	return &SessionStore{backend: client, keyer: client, ttl: cfg.SessionTTL}, nil
}

// Load returns the user's session, or a fresh empty one when none exists.
func (s *SessionStore) Load(ctx context.Context, userID uuid.UUID) (*Session, error) {
	raw, err := s.backend.Get(ctx, s.keyer.CheckoutSessionKey(userID.String()))
	if errors.Is(err, redisclient.ErrNotFound) {
		return newSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		// A corrupt session is recoverable; the user just starts over.
		return newSession(), nil
	}
	if session.Lines == nil {
		session.Lines = map[uuid.UUID]LineState{}
	}
	if session.Selected == nil {
		session.Selected = []uuid.UUID{}
	}
	return &session, nil
}

// Save writes the session back, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, userID uuid.UUID, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding checkout session: %w", err)
	}
	if err := s.backend.Set(ctx, s.keyer.CheckoutSessionKey(userID.String()), string(payload), s.ttl); err != nil {
		return fmt.Errorf("saving checkout session: %w", err)
	}
	return nil
}

// Clear deletes the user's session.
func (s *SessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.backend.Del(ctx, s.keyer.CheckoutSessionKey(userID.String())); err != nil {
		return fmt.Errorf("clearing checkout session: %w", err)
	}
	return nil
}

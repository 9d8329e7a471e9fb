package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"tabtime/internal/session"
)

// SessionsKey is the key the session list lives under.
const SessionsKey = "sessions"

// DefaultMaxSessions bounds how many session records are retained.
const DefaultMaxSessions = 1000

// SessionStore adapts the KV namespace to an ordered list of session
// records. The list is kept in append order and capped at MaxSessions by
// dropping the oldest entries on overflow.
type SessionStore struct {
	kv          *KV
	maxSessions int
}

// NewSessionStore creates a SessionStore over kv. maxSessions <= 0 selects
// DefaultMaxSessions.
func NewSessionStore(kv *KV, maxSessions int) *SessionStore {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &SessionStore{kv: kv, maxSessions: maxSessions}
}

// Load returns the persisted session list, or an empty slice if unset.
func (s *SessionStore) Load(ctx context.Context) ([]session.Session, error) {
	raw, ok, err := s.kv.Get(ctx, SessionsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []session.Session{}, nil
	}

	var sessions []session.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	return sessions, nil
}

// Save replaces the persisted session list wholesale.
func (s *SessionStore) Save(ctx context.Context, sessions []session.Session) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	return s.kv.Set(ctx, SessionsKey, raw)
}

// Append merges a batch of closed sessions onto the persisted list in
// order, truncating to the most recent MaxSessions entries (FIFO
// eviction), and writes the result back. Implements session.Store.
func (s *SessionStore) Append(ctx context.Context, batch []session.Session) error {
	if len(batch) == 0 {
		return nil
	}

	sessions, err := s.Load(ctx)
	if err != nil {
		return err
	}

	sessions = append(sessions, batch...)
	if len(sessions) > s.maxSessions {
		sessions = sessions[len(sessions)-s.maxSessions:]
	}

	return s.Save(ctx, sessions)
}

// Count returns the number of persisted session records.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	sessions, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(sessions), nil
}

// Purge deletes all persisted session records.
func (s *SessionStore) Purge(ctx context.Context) error {
	return s.kv.Delete(ctx, SessionsKey)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/metrics"
	"github.com/hieptuanle/baby-tracker/internal/models"
	"github.com/hieptuanle/baby-tracker/internal/store"
	"github.com/hieptuanle/baby-tracker/internal/util"
)

const (
	// DefaultSessionTTL is the absolute lifetime of a session.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// tokenBytes gives 256 bits of entropy, 64 hex characters.
	tokenBytes = 32
)

// SessionManager issues and validates opaque session tokens.
type SessionManager struct {
	sessions store.SessionStore
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager returns a manager issuing sessions that live for ttl
// (DefaultSessionTTL when <= 0). now defaults to time.Now.
func NewSessionManager(sessions store.SessionStore, ttl time.Duration, now func() time.Time) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SessionManager{sessions: sessions, ttl: ttl, now: now}
}

// TTL returns the session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for userID and returns its token.
func (m *SessionManager) Create(ctx context.Context, userID uint) (string, error) {
	token, err := util.RandomToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	if _, err := m.sessions.Create(ctx, userID, token, m.now().Add(m.ttl)); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Resolve returns the live session for token. Unknown, expired and empty
// tokens all yield nil without an error.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	s, err := m.sessions.GetActive(ctx, token, m.now())
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return s, nil
}

// Delete removes the session for token if it exists.
func (m *SessionManager) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session that is no longer valid and returns
// how many were removed.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	metrics.SessionsPurgedTotal.Add(float64(n))
	return n, nil
}

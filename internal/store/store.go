// Package store declares the persistence contracts the services depend on.
// internal/database provides the SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/models"
)

type Store interface {
	Users() UserStore
	Sessions() SessionStore
	Pregnancies() PregnancyStore

	// Ping checks that the underlying database is reachable.
	Ping(ctx context.Context) error
}

type UserStore interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
}

type SessionStore interface {
	// GetActive returns the session for token if it expires after now.
	GetActive(ctx context.Context, token string, now time.Time) (*models.Session, error)

	Create(ctx context.Context, userID uint, token string, expiresAt time.Time) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes every session with expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PregnancyStore interface {
	// Latest returns the user's most recently created record. Ties on
	// created_at are broken by the higher id.
	Latest(ctx context.Context, userID uint) (*models.Pregnancy, error)

	Create(ctx context.Context, p *models.Pregnancy) error
	Update(ctx context.Context, id uint, edd string, lmp *string, updatedAt time.Time) error
	Delete(ctx context.Context, id uint) error
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/hieptuanle/baby-tracker/internal/store"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of store.Store.
type Store struct {
	db *gorm.DB

	users       *userStore
	sessions    *sessionStore
	pregnancies *pregnancyStore
}

var _ store.Store = (*Store)(nil)

// NewStore wraps an initialised and migrated database handle.
func NewStore(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.users = &userStore{db: db}
	s.sessions = &sessionStore{db: db}
	s.pregnancies = &pregnancyStore{db: db}
	return s
}

func (s *Store) Users() store.UserStore {
	return s.users
}

func (s *Store) Sessions() store.SessionStore {
	return s.sessions
}

func (s *Store) Pregnancies() store.PregnancyStore {
	return s.pregnancies
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrUniqueViolation
	default:
		return err
	}
}

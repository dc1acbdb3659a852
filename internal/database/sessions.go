package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/models"

	"gorm.io/gorm"
)

type sessionStore struct {
	db *gorm.DB
}

// MUTATIONS

func (s *sessionStore) Create(ctx context.Context, userID uint, token string, expiresAt time.Time) (*models.Session, error) {
	session := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	}

	result := s.db.WithContext(ctx).Create(session)
	if result.Error != nil {
		return nil, translate(result.Error)
	} else if result.RowsAffected != 1 {
		return nil, fmt.Errorf("failed to create session (user: %d)", userID)
	}
	return session, nil
}

func (s *sessionStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

func (s *sessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// QUERIES

func (s *sessionStore) GetActive(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now.UTC()).
		Take(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

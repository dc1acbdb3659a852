package database

import (
	"context"
	"fmt"

	"github.com/hieptuanle/baby-tracker/internal/models"

	"gorm.io/gorm"
)

type userStore struct {
	db *gorm.DB
}

// MUTATIONS

func (s *userStore) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{Username: username, PasswordHash: passwordHash}

	result := s.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		return nil, translate(result.Error)
	} else if result.RowsAffected != 1 {
		return nil, fmt.Errorf("failed to create user (username: %s)", username)
	}
	return user, nil
}

// QUERIES

func (s *userStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *userStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

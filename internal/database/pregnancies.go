package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hieptuanle/baby-tracker/internal/models"
	"github.com/hieptuanle/baby-tracker/internal/store"

	"gorm.io/gorm"
)

type pregnancyStore struct {
	db *gorm.DB
}

// MUTATIONS

func (s *pregnancyStore) Create(ctx context.Context, p *models.Pregnancy) error {
	result := s.db.WithContext(ctx).Create(p)
	if result.Error != nil {
		return translate(result.Error)
	} else if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create pregnancy (user: %d)", p.UserID)
	}
	return nil
}

func (s *pregnancyStore) Update(ctx context.Context, id uint, edd string, lmp *string, updatedAt time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.Pregnancy{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"expected_delivery_date": edd,
			"last_menstrual_period":  lmp,
			"updated_at":             updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *pregnancyStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Pregnancy{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// QUERIES

func (s *pregnancyStore) Latest(ctx context.Context, userID uint) (*models.Pregnancy, error) {
	var p models.Pregnancy
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Take(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

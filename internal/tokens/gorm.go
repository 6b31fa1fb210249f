package tokens

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"accountswitchd/internal/db/models"
)

// GormStore persists tokens in the shared SQLite database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Store(ctx context.Context, accountID, refreshToken string) error {
	return s.db.WithContext(ctx).Save(&models.StoredToken{
		AccountID:     accountID,
		RefreshToken:  refreshToken,
		LastUpdatedAt: time.Now(),
	}).Error
}

func (s *GormStore) Get(ctx context.Context, accountID string) (string, error) {
	var row models.StoredToken
	if err := s.db.WithContext(ctx).First(&row, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return row.RefreshToken, nil
}

func (s *GormStore) Remove(ctx context.Context, accountID string) error {
	return s.db.WithContext(ctx).Delete(&models.StoredToken{}, "account_id = ?", accountID).Error
}

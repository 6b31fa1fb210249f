package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"accountswitchd/internal/db/models"
)

// GormStore persists the registry in the shared SQLite database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]Account, error) {
	var rows []models.StoredAccount
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, fromRow(row))
	}
	return accounts, nil
}

func (s *GormStore) Upsert(ctx context.Context, up Upsert) error {
	now := time.Now()

	var existing models.StoredAccount
	err := s.db.WithContext(ctx).First(&existing, "id = ?", up.ID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&models.StoredAccount{
			ID:         up.ID,
			Email:      up.Email,
			Username:   up.Username,
			FullName:   up.FullName,
			AvatarURL:  up.AvatarURL,
			LastUsedAt: now,
		}).Error
	}

	// Merge display fields in place; CachedSession stays as it was.
	existing.Email = up.Email
	existing.Username = up.Username
	existing.FullName = up.FullName
	existing.AvatarURL = up.AvatarURL
	existing.LastUsedAt = now
	return s.db.WithContext(ctx).Save(&existing).Error
}

func (s *GormStore) Remove(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.StoredAccount{}, "id = ?", id).Error
}

func (s *GormStore) TouchLastUsed(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.StoredAccount{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now()).Error
}

func (s *GormStore) StoreCachedSession(ctx context.Context, id string, session json.RawMessage) error {
	return s.db.WithContext(ctx).
		Model(&models.StoredAccount{}).
		Where("id = ?", id).
		Update("cached_session", string(session)).Error
}

func (s *GormStore) CachedSession(ctx context.Context, id string) (json.RawMessage, error) {
	var row models.StoredAccount
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if row.CachedSession == "" || !json.Valid([]byte(row.CachedSession)) {
		return nil, nil
	}
	return json.RawMessage(row.CachedSession), nil
}

func fromRow(row models.StoredAccount) Account {
	acc := Account{
		ID:         row.ID,
		Email:      row.Email,
		Username:   row.Username,
		FullName:   row.FullName,
		AvatarURL:  row.AvatarURL,
		LastUsedAt: row.LastUsedAt,
	}
	if row.CachedSession != "" && json.Valid([]byte(row.CachedSession)) {
		acc.CachedSession = json.RawMessage(row.CachedSession)
	}
	return acc
}

package switchstate

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"accountswitchd/internal/db/models"
)

const stateKey = "switch_state"

// GormStore keeps the state as a single keyed row in the shared database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context) (State, error) {
	var row models.SwitchStateRow
	if err := s.db.WithContext(ctx).First(&row, "key = ?", stateKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Idle(), nil
		}
		return Idle(), err
	}
	if row.Phase == "" {
		return Idle(), nil
	}
	return State{Phase: Phase(row.Phase), AccountID: row.AccountID}, nil
}

func (s *GormStore) Set(ctx context.Context, st State) error {
	return s.db.WithContext(ctx).Save(&models.SwitchStateRow{
		Key:       stateKey,
		Phase:     string(st.Phase),
		AccountID: st.AccountID,
		UpdatedAt: time.Now(),
	}).Error
}

func (s *GormStore) Clear(ctx context.Context) error {
	return s.Set(ctx, Idle())
}

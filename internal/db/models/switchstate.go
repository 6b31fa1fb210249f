package models

import "time"

// SwitchStateRow persists the switch machine's phase as a single keyed row.
// Exactly one row (key = "switch_state") exists once anything has been written.
type SwitchStateRow struct {
	Key       string `gorm:"primaryKey"`
	Phase     string
	AccountID string
	UpdatedAt time.Time
}

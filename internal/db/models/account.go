package models

import "time"

// StoredAccount is one entry in the device-local account registry: every
// account that has completed at least one sign-in on this installation.
type StoredAccount struct {
	ID            string `gorm:"primaryKey"` // provider user ID
	Email         string `gorm:"index"`
	Username      string
	FullName      string
	AvatarURL     string
	LastUsedAt    time.Time
	CachedSession string // JSON snapshot of the last known session, empty until captured
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

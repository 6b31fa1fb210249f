package models

import "time"

// StoredToken maps an account to its long-lived refresh token. Kept separate
// from StoredAccount so token rotation never rewrites display metadata.
type StoredToken struct {
	AccountID     string `gorm:"primaryKey"`
	RefreshToken  string
	LastUpdatedAt time.Time
}

package models

import (
	"time"
)

// User represents a registered participant. Users are created on first
// contact with only their telegram ID (and optionally a referrer); the
// profile fields are filled in progressively by the registration wizard.
type User struct {
	TelegramID    int64  `gorm:"primaryKey" json:"telegram_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Cedula        string `json:"cedula"`
	Nequi         string `json:"nequi"`
	ReferredBy    *int64 `gorm:"index" json:"referred_by,omitempty"`
	ReferralCount int    `gorm:"default:0" json:"referral_count"`

	// Accumulators, only ever increased by investment approval.
	TotalInvested int64 `gorm:"default:0" json:"total_invested"`
	TotalProfit   int64 `gorm:"default:0" json:"total_profit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

package models

import (
	"time"
)

// Investment states. Pendiente is the only non-terminal state; once an
// investment is Aprobado or Rechazado it never changes again.
const (
	StatusPending  = "Pendiente"
	StatusApproved = "Aprobado"
	StatusRejected = "Rechazado"
)

// AllowedAmounts is the fixed set of montos a user can invest.
var AllowedAmounts = []int64{100000, 300000, 500000}

// ProfitPercent is the return credited on approval, floored.
const ProfitPercent = 60

// PayoutOffsetDays is added to the investment date to schedule the payout.
const PayoutOffsetDays = 3

// Investment is immutable after creation except for Status and the one-time
// accumulator accrual applied alongside the approval transition.
type Investment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount      int64     `gorm:"not null" json:"amount"`
	InvestedOn  time.Time `json:"invested_on"`
	PayoutOn    time.Time `json:"payout_on"`
	Status      string    `gorm:"size:20;default:Pendiente;index" json:"status"`
	ReceiptPath string    `gorm:"size:500" json:"receipt_path"`
	ReceiptText string    `json:"receipt_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}

// AmountAllowed reports whether amount is one of the enumerated montos.
func AmountAllowed(amount int64) bool {
	for _, a := range AllowedAmounts {
		if a == amount {
			return true
		}
	}
	return false
}

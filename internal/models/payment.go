package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// Payment records what a user was charged for a due.
// Amount is fixed at creation and may exceed Due.Amount when a penalty applied.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint            `gorm:"not null;uniqueIndex:idx_payments_user_due,priority:1" json:"user_id"`
	DueID  uint            `gorm:"not null;uniqueIndex:idx_payments_user_due,priority:2;index" json:"due_id"`
	Amount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status PaymentStatus   `gorm:"type:varchar(20);not null;default:'COMPLETED';index" json:"status"`
	PaidAt time.Time       `json:"paid_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Due  *Due  `gorm:"foreignKey:DueID" json:"due,omitempty"`
}

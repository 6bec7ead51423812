package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DueType represents how often a due is raised
type DueType string

const (
	DueTypeMonthly    DueType = "MONTHLY"
	DueTypeOccasional DueType = "OCCASIONAL"
)

// Valid reports whether t is a known due type
func (t DueType) Valid() bool {
	return t == DueTypeMonthly || t == DueTypeOccasional
}

// Due is an amount every member owes the association by DueDate.
// Dues are immutable once created.
type Due struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_dues_title_type,priority:1" json:"title"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        DueType         `gorm:"type:varchar(20);not null;uniqueIndex:idx_dues_title_type,priority:2" json:"type"`
	DueDate     time.Time       `gorm:"index" json:"due_date"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:DueID" json:"payments,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationCode is a single-use invite code required to register.
// IsUsed flips to true exactly once, together with UsedByUserID.
type VerificationCode struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Code         string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name         *string `gorm:"type:varchar(255)" json:"name,omitempty"`
	IsUsed       bool    `gorm:"default:false" json:"is_used"`
	UsedByUserID *uint   `gorm:"index" json:"used_by_user_id,omitempty"`

	// Relationships
	UsedByUser *User `gorm:"foreignKey:UsedByUserID" json:"used_by_user,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID  uint   `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  bool   `gorm:"default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
}

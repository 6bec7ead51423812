package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleMember UserRole = "MEMBER"
)

// User represents a registered association member
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string   `gorm:"type:varchar(255)" json:"name"`
	Email    string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string   `gorm:"type:varchar(255);not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(20);default:'MEMBER'" json:"role"`

	// Relationships
	Payments      []Payment      `gorm:"foreignKey:UserID" json:"payments,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"notifications,omitempty"`
}

// IsAdmin reports whether the user may use the admin surface
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

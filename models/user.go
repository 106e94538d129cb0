package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole mirrors users.role.
type UserRole string

const (
	RoleBusinessAdmin UserRole = "BUSINESS_ADMIN"
	RoleReviewer      UserRole = "REVIEWER"
	RoleReader        UserRole = "READER"
)

type User struct {
	UserID   uuid.UUID  `gorm:"primaryKey;type:char(36);column:user_id" json:"user_id"`
	FullName string     `gorm:"column:full_name" json:"full_name"`
	Email    string     `gorm:"column:email;uniqueIndex;size:191" json:"email"`
	Role     UserRole   `gorm:"column:role;size:32;index" json:"role"`
	IsActive bool       `gorm:"column:is_active;default:true" json:"is_active"`
	CreateAt time.Time  `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// HasRole reports whether the user is active and holds role.
func (u *User) HasRole(role UserRole) bool {
	return u != nil && u.IsActive && u.DeleteAt == nil && u.Role == role
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

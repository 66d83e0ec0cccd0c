package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents a registered customer or administrator.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string     `json:"first_name" gorm:"size:50;not null" validate:"required,min=2,max=50"`
	LastName     string     `json:"last_name" gorm:"size:50;not null" validate:"required,min=2,max=50"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:100;not null" validate:"required,email"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'customer'" validate:"omitempty,oneof=admin customer"`
	PhoneNumber  string     `json:"phone_number,omitempty" gorm:"size:20" validate:"omitempty,phone"`
	IsDeleted    bool       `json:"-" gorm:"not null;default:false;index"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail lowercases and trims the email. Must run before the row is
// persisted so the unique index is effectively case-insensitive.
func (u *User) NormalizeEmail() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role defines the account role of a user.
type Role string

const (
	// RoleGeneral is the default role for a newly registered account.
	RoleGeneral Role = "general"
	// RoleDancer marks an account as a listed performer.
	RoleDancer Role = "dancer"
	// RoleClient marks an account that books talent.
	RoleClient Role = "client"
	// RoleManager marks an agency manager account.
	RoleManager Role = "manager"
	// RoleAdmin marks a platform administrator.
	RoleAdmin Role = "admin"
)

// PublicSignupRoles are the roles a user may select at signup.
// Manager and admin accounts are provisioned by administrators.
var PublicSignupRoles = []Role{RoleGeneral, RoleDancer, RoleClient}

// CanRequestClaim reports whether accounts with this role may request a
// claim on a roster profile.
func (r Role) CanRequestClaim() bool {
	return r == RoleGeneral || r == RoleDancer
}

// User represents an account on the platform. Administrator-seeded roster
// profiles carry IsVirtual=true and have no usable login until a claim
// links a real account to them.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `gorm:"size:120" json:"display_name"`
	Bio         string         `json:"bio"`
	Avatar      string         `json:"avatar"`
	Role        Role           `gorm:"type:varchar(20);not null;default:'general';index" json:"role"`
	IsVirtual   bool           `gorm:"not null;default:false" json:"is_virtual"`
	// DisplayOrder is the roster position. NULL means the profile does not
	// appear in the public dancer listing.
	DisplayOrder *int           `gorm:"index" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

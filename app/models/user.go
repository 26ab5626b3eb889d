package models

import "gorm.io/gorm"

// Roles assignable to a User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account that can sign in. Password holds the bcrypt hash and is
// never serialised.
type User struct {
	gorm.Model
	Username  string `gorm:"uniqueIndex;size:50;not null"  json:"username"`
	Email     string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string `gorm:"size:255;not null"             json:"-"`
	FirstName string `gorm:"size:50"                       json:"first_name"`
	LastName  string `gorm:"size:50"                       json:"last_name"`
	Role      string `gorm:"size:20;not null;default:user" json:"role"`
	// No default tag: gorm skips zero-valued fields that carry one on
	// insert, which would store a deactivated user as active.
	Active   bool `gorm:"not null" json:"active"`
	Verified bool `gorm:"not null;default:false" json:"verified"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

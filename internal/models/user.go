package models

import (
	"strings"
	"time"
)

// Role represents the closed set of portal roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Roles lists the roles in selector order.
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher, RoleAdmin}
}

// ParseRole resolves a role name case-insensitively.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return r, true
	}
	return "", false
}

// User represents an account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"userid"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Phone        string    `db:"phone" json:"contactNumber"`
	Role         Role      `db:"role" json:"userType"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Actor returns the public view of the account.
func (u User) Actor() Actor {
	return Actor{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// Actor is the authenticated user as seen by the portal.
type Actor struct {
	ID        string `json:"userid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"userType"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"contactNumber,omitempty"`
}

// IsAdmin reports whether the actor may mutate records.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// CanFilter reports whether list screens offer the role filter surface.
func (a *Actor) CanFilter() bool {
	return a != nil && (a.Role == RoleTeacher || a.Role == RoleAdmin)
}

// DisplayName prefers the full name and falls back to the username.
func (a *Actor) DisplayName() string {
	if a == nil {
		return ""
	}
	full := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if full != "" {
		return full
	}
	return a.Username
}

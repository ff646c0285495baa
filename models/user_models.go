package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the kind of account a user holds.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// ParseRole maps an external string onto a Role. Matching is case-insensitive;
// unknown values are rejected rather than defaulted.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User represents a user in the database.
type User struct {
	ID           int64     `json:"id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Store hashed password, exclude from JSON
	Role         Role      `json:"role" db:"role"`
	Points       int       `json:"points" db:"points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsFaculty() bool { return u.Role == RoleFaculty }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// UserStats summarises a user's activity for their dashboard.
type UserStats struct {
	UserID         int64 `json:"user_id"`
	Points         int   `json:"points"`
	ProposedEvents int   `json:"proposed_events"`
	Contributions  int   `json:"contributions"`
}

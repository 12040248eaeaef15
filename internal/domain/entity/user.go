package entity

import (
	"time"

	"github.com/google/uuid"
)

// RootPrivilege marks a user whose auth tokens never expire.
const RootPrivilege = 0

// User represents a server-side user allowed to operate on the budget.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string

	// Privilege 0 is the root user; higher values are ordinary users whose
	// sessions expire normally.
	Privilege int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a new User.
func NewUser(username, email, passwordHash string, privilege int) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Privilege:    privilege,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsRoot reports whether the user holds root privilege.
func (u *User) IsRoot() bool {
	return u.Privilege == RootPrivilege
}

package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in the Password field.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSummary is a user row annotated with how many photos they own.
type UserSummary struct {
	User
	PhotoCount int64
}

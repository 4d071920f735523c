package model

import "time"

// UserID uniquely identifies an account
type UserID string

// User is a registered account. Email is unique and stored normalized.
type User struct {
	ID           UserID
	Email        string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

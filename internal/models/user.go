package models

import "time"

// User represents an account. Only admins may trigger imports.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose the hash in JSON responses.
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

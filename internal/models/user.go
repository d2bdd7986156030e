package models

import "time"

// User represents a registered account. Users are referenced by ID
// everywhere except invitation creation, which resolves the guest by email.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

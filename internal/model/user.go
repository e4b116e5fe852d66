package model

import "time"

// User owns journal entries. There is no registration or login flow yet; a
// default owner row is seeded at startup so the foreign key holds.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

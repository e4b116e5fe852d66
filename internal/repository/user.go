package repository

import (
	"context"

	"journalapi/internal/model"
)

// UserRepository defines data access for user rows.
type UserRepository interface {
	// FindByID returns a user by its ID.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// EnsureDefault inserts the default owner row if it does not exist yet.
	// Existing rows are left untouched.
	EnsureDefault(ctx context.Context, id int64, email, passwordHash string) error
}

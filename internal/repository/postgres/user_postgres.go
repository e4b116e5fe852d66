package postgres

import (
	"context"
	"database/sql"

	"journalapi/internal/model"
	"journalapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureDefault inserts the default owner row when missing. The explicit ID
// keeps the id sequence ahead of the seed row.
func (r *UserPostgres) EnsureDefault(ctx context.Context, id int64, email, passwordHash string) error {
	const q = `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, q, id, email, passwordHash); err != nil {
		return err
	}
	const qSeq = `SELECT setval('users_id_seq', GREATEST((SELECT MAX(id) FROM users), 1))`
	_, err := r.db.ExecContext(ctx, qSeq)
	return err
}

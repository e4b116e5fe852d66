package postgres

import (
	"context"
	"database/sql"

	"journalapi/internal/model"
	"journalapi/internal/repository"
)

// JournalPostgres is a PostgreSQL implementation of repository.JournalRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type JournalPostgres struct {
	db *sql.DB
}

// NewJournalPostgres creates a new JournalPostgres repository.
func NewJournalPostgres(db *sql.DB) *JournalPostgres {
	return &JournalPostgres{db: db}
}

var _ repository.JournalRepository = (*JournalPostgres)(nil)

// Create inserts a new journal entry row and returns the stored record with
// the database-assigned identifier and timestamps.
func (r *JournalPostgres) Create(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	const q = `
		INSERT INTO journal_entries (user_id, content, audio_path)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, content, audio_path, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		entry.UserID,
		entry.Content,
		entry.AudioPath,
	)
	var out model.JournalEntry
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Content,
		&out.AudioPath,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single journal entry by its ID.
func (r *JournalPostgres) FindByID(ctx context.Context, id int64) (*model.JournalEntry, error) {
	const q = `
		SELECT id, user_id, content, audio_path, created_at, updated_at
		FROM journal_entries
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var e model.JournalEntry
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Content,
		&e.AudioPath,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateContent overwrites the entry content and refreshes updated_at.
// Returns sql.ErrNoRows when the entry does not exist.
func (r *JournalPostgres) UpdateContent(ctx context.Context, id int64, content string) (*model.JournalEntry, error) {
	const q = `
		UPDATE journal_entries
		SET content = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, content, audio_path, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q, id, content)
	var e model.JournalEntry
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Content,
		&e.AudioPath,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns the owner's entries using LIMIT/OFFSET pagination, newest
// first, plus the owner's total row count.
func (r *JournalPostgres) List(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.JournalEntry], error) {
	// Count total rows for the owner
	const qCount = `SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, ownerID).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT id, user_id, content, audio_path, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, ownerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.JournalEntry, 0)
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Content,
			&e.AudioPath,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.JournalEntry]{
		Items: items,
		Total: total,
	}, nil
}

package repository

import (
	"context"

	"journalapi/internal/model"
)

// JournalRepository defines data access for journal entries using SQL queries only.
// No business logic here — strictly persistence operations.
type JournalRepository interface {
	// Create inserts a new journal entry row. Identifier and timestamps are
	// assigned by the database; the stored record is returned hydrated.
	Create(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error)

	// FindByID returns a journal entry by its ID.
	FindByID(ctx context.Context, id int64) (*model.JournalEntry, error)

	// UpdateContent overwrites an entry's content and refreshes its
	// updated_at timestamp. The audio reference is left untouched.
	UpdateContent(ctx context.Context, id int64, content string) (*model.JournalEntry, error)

	// List returns a paginated list of entries belonging to ownerID, newest
	// first, plus the owner's total row count.
	List(ctx context.Context, ownerID int64, pq PageQuery) (*PageResult[model.JournalEntry], error)
}

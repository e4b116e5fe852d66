package model

import "time"

// JournalEntry represents a stored journal record pairing text content with an
// optional audio provenance reference.
// This is a pure domain model with no database-specific dependencies or tags.
type JournalEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	AudioPath *string   `json:"audio_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

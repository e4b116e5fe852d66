package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"journalapi/internal/model"
	"journalapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func entryColumns() []string {
	return []string{"id", "user_id", "content", "audio_path", "created_at", "updated_at"}
}

func TestJournalPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewJournalPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	audioPath := "uploads/audio/test.wav"
	entry := &model.JournalEntry{
		UserID:    1,
		Content:   "Today was a good day.",
		AudioPath: &audioPath,
	}

	rows := sqlmock.NewRows(entryColumns()).
		AddRow(int64(42), entry.UserID, entry.Content, entry.AudioPath, now, now)

	mock.ExpectQuery("INSERT INTO journal_entries").
		WithArgs(entry.UserID, entry.Content, entry.AudioPath).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, entry)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(42), result.ID)
	assert.Equal(t, entry.Content, result.Content)
	assert.NotNil(t, result.AudioPath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalPostgres_Create_NilAudioPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewJournalPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	entry := &model.JournalEntry{UserID: 1, Content: "Text only."}

	rows := sqlmock.NewRows(entryColumns()).
		AddRow(int64(7), entry.UserID, entry.Content, nil, now, now)

	mock.ExpectQuery("INSERT INTO journal_entries").
		WithArgs(entry.UserID, entry.Content, nil).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, entry)

	assert.NoError(t, err)
	assert.Nil(t, result.AudioPath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewJournalPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(entryColumns()).
			AddRow(int64(5), int64(1), "Entry text.", nil, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE id = ?").
			WithArgs(int64(5)).
			WillReturnRows(rows)

		entry, err := repo.FindByID(ctx, 5)

		assert.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, int64(5), entry.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE id = ?").
			WithArgs(int64(999)).
			WillReturnError(sql.ErrNoRows)

		entry, err := repo.FindByID(ctx, 999)

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, entry)
	})
}

func TestJournalPostgres_UpdateContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewJournalPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		audioPath := "uploads/audio/a.wav"
		rows := sqlmock.NewRows(entryColumns()).
			AddRow(int64(5), int64(1), "New transcription.", &audioPath, time.Now().Add(-time.Hour), time.Now())

		mock.ExpectQuery("UPDATE journal_entries").
			WithArgs(int64(5), "New transcription.").
			WillReturnRows(rows)

		entry, err := repo.UpdateContent(ctx, 5, "New transcription.")

		assert.NoError(t, err)
		assert.Equal(t, "New transcription.", entry.Content)
		// Audio reference survives the content overwrite.
		assert.NotNil(t, entry.AudioPath)
		assert.True(t, entry.UpdatedAt.After(entry.CreatedAt))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("UPDATE journal_entries").
			WithArgs(int64(404), "text").
			WillReturnError(sql.ErrNoRows)

		entry, err := repo.UpdateContent(ctx, 404, "text")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, entry)
	})
}

func TestJournalPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewJournalPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM journal_entries WHERE user_id = ?").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		rows := sqlmock.NewRows(entryColumns()).
			AddRow(int64(2), int64(1), "Second.", nil, time.Now(), time.Now()).
			AddRow(int64(1), int64(1), "First.", nil, time.Now().Add(-time.Minute), time.Now().Add(-time.Minute))

		mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE user_id = (.+) ORDER BY created_at DESC, id DESC").
			WithArgs(int64(1), 10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, 1, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Len(t, res.Items, 2)
		// Newest first.
		assert.Equal(t, int64(2), res.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM journal_entries WHERE user_id = ?").
			WithArgs(int64(1)).
			WillReturnError(errors.New("count failed"))

		res, err := repo.List(ctx, 1, repository.PageQuery{Limit: 10, Offset: 0})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	t.Run("empty page", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM journal_entries WHERE user_id = ?").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery("SELECT (.+) FROM journal_entries WHERE user_id = (.+)").
			WithArgs(int64(2), 10, 0).
			WillReturnRows(sqlmock.NewRows(entryColumns()))

		res, err := repo.List(ctx, 2, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})
}

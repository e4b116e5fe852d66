package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"journalapi/internal/asr"
	"journalapi/internal/model"
	"journalapi/internal/repository"
	"journalapi/internal/storage"
	"journalapi/internal/text"
)

var (
	ErrNotFound     = errors.New("journal entry not found")
	ErrNoAudio      = errors.New("journal entry has no audio reference")
	ErrAudioMissing = errors.New("referenced audio file is missing")
	ErrReaderNil    = errors.New("reader is nil")
)

// TranscriptionResult is the response body for a standalone transcription.
type TranscriptionResult struct {
	Status    string        `json:"status"`
	Text      string        `json:"text"`
	AudioPath string        `json:"audio_path"`
	Metadata  *asr.Metadata `json:"metadata"`
}

// RetranscriptionResult is the response body for re-running transcription
// against an existing entry's stored audio.
type RetranscriptionResult struct {
	Status    string        `json:"status"`
	JournalID int64         `json:"journal_id"`
	Text      string        `json:"text"`
	Metadata  *asr.Metadata `json:"metadata"`
}

// JournalListResult is the service-level DTO for paginated entries.
type JournalListResult struct {
	Items []model.JournalEntry `json:"data"`
	Total int                  `json:"total"`
}

// JournalService defines the use cases for journal entries.
type JournalService interface {
	// TranscribeUpload stores the audio stream and transcribes it without
	// creating a journal entry. The stored file is deleted again when
	// transcription fails.
	TranscribeUpload(ctx context.Context, r io.Reader, originalFilename, language string) (*TranscriptionResult, error)

	// CreateFromAudio stores the audio stream, transcribes it and persists a
	// journal entry referencing the artifact. On any stage failure after the
	// upload succeeded, the stored file is deleted before the error surfaces.
	CreateFromAudio(ctx context.Context, r io.Reader, originalFilename, language string, ownerID int64) (*model.JournalEntry, error)

	// CreateFromText normalizes the content and persists a text-only entry.
	CreateFromText(ctx context.Context, content string, ownerID int64) (*model.JournalEntry, error)

	// Get returns a single entry by its ID.
	Get(ctx context.Context, id int64) (*model.JournalEntry, error)

	// List returns the owner's entries, newest first, using limit/offset.
	List(ctx context.Context, ownerID int64, limit, offset int) (*JournalListResult, error)

	// Retranscribe re-runs transcription against the entry's stored audio and
	// overwrites its content. The audio reference is left untouched.
	Retranscribe(ctx context.Context, id int64, language string) (*RetranscriptionResult, error)
}

// journalService is a concrete implementation of JournalService.
type journalService struct {
	repo    repository.JournalRepository
	uploads storage.UploadStore
	tr      Transcriber
	archive storage.ObjectStorage // nil disables audio archival
	log     *zap.SugaredLogger
}

// NewJournalService constructs a new JournalService. archive may be nil.
func NewJournalService(
	repo repository.JournalRepository,
	uploads storage.UploadStore,
	tr Transcriber,
	archive storage.ObjectStorage,
	log *zap.SugaredLogger,
) JournalService {
	return &journalService{repo: repo, uploads: uploads, tr: tr, archive: archive, log: log}
}

func (s *journalService) TranscribeUpload(ctx context.Context, r io.Reader, originalFilename, language string) (*TranscriptionResult, error) {
	path, txt, md, err := s.saveAndTranscribe(ctx, r, originalFilename, language)
	if err != nil {
		return nil, err
	}
	return &TranscriptionResult{
		Status:    "success",
		Text:      txt,
		AudioPath: path,
		Metadata:  md,
	}, nil
}

func (s *journalService) CreateFromAudio(ctx context.Context, r io.Reader, originalFilename, language string, ownerID int64) (*model.JournalEntry, error) {
	path, txt, _, err := s.saveAndTranscribe(ctx, r, originalFilename, language)
	if err != nil {
		return nil, err
	}

	entry := &model.JournalEntry{
		UserID:    ownerID,
		Content:   txt,
		AudioPath: &path,
	}
	stored, err := s.repo.Create(ctx, entry)
	if err != nil {
		// Rollback: delete the stored artifact so no orphan survives.
		if delErr := s.uploads.Remove(path); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.archiveAudio(ctx, path)
	return stored, nil
}

// saveAndTranscribe is the shared upload → transcribe front half of the
// pipeline. The stored file is deleted when transcription fails.
func (s *journalService) saveAndTranscribe(ctx context.Context, r io.Reader, originalFilename, language string) (string, string, *asr.Metadata, error) {
	if r == nil {
		return "", "", nil, ErrReaderNil
	}

	path, err := s.uploads.Save(ctx, r, originalFilename)
	if err != nil {
		return "", "", nil, err
	}

	txt, md, err := s.tr.Transcribe(ctx, path, language)
	if err != nil {
		if delErr := s.uploads.Remove(path); delErr != nil {
			s.log.Errorw("cleanup of failed upload failed", "path", path, "error", delErr)
		}
		return "", "", nil, err
	}
	return path, txt, md, nil
}

// archiveAudio mirrors a persisted artifact into object storage, best-effort.
func (s *journalService) archiveAudio(ctx context.Context, path string) {
	if s.archive == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.log.Warnw("audio archive skipped", "path", path, "error", err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		s.log.Warnw("audio archive skipped", "path", path, "error", err)
		return
	}

	key := "audio/" + filepath.Base(path)
	if _, err := s.archive.Put(ctx, key, f, storage.PutObjectOptions{
		Size:        fi.Size(),
		ContentType: "application/octet-stream",
		Metadata:    map[string]string{"source-path": path},
	}); err != nil {
		s.log.Warnw("audio archive failed", "key", key, "error", err)
	}
}

func (s *journalService) CreateFromText(ctx context.Context, content string, ownerID int64) (*model.JournalEntry, error) {
	entry := &model.JournalEntry{
		UserID:  ownerID,
		Content: text.Clean(content),
	}
	stored, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *journalService) Get(ctx context.Context, id int64) (*model.JournalEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// List returns paginated entries without exposing repository types.
func (s *journalService) List(ctx context.Context, ownerID int64, limit, offset int) (*JournalListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, ownerID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &JournalListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *journalService) Retranscribe(ctx context.Context, id int64, language string) (*RetranscriptionResult, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if entry.AudioPath == nil || *entry.AudioPath == "" {
		return nil, ErrNoAudio
	}
	if !s.uploads.Exists(*entry.AudioPath) {
		return nil, ErrAudioMissing
	}

	txt, md, err := s.tr.Transcribe(ctx, *entry.AudioPath, language)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateContent(ctx, id, txt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	return &RetranscriptionResult{
		Status:    "success",
		JournalID: updated.ID,
		Text:      updated.Content,
		Metadata:  md,
	}, nil
}

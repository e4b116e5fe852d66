package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"journalapi/internal/asr"
	"journalapi/internal/model"
	"journalapi/internal/repository"
	repoMocks "journalapi/internal/repository/mocks"
	"journalapi/internal/storage"
	storeMocks "journalapi/internal/storage/mocks"
)

// mockTranscriber lives here rather than in mocks/ to avoid an import cycle
// with the service package's own DTO types.
type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath, language string) (string, *asr.Metadata, error) {
	args := m.Called(ctx, audioPath, language)
	var md *asr.Metadata
	if v := args.Get(1); v != nil {
		md = v.(*asr.Metadata)
	}
	return args.String(0), md, args.Error(2)
}

func newJournalService(repo repository.JournalRepository, uploads storage.UploadStore, tr Transcriber, archive storage.ObjectStorage) JournalService {
	return NewJournalService(repo, uploads, tr, archive, zap.NewNop().Sugar())
}

func TestJournalService_TranscribeUpload(t *testing.T) {
	ctx := context.Background()
	md := &asr.Metadata{Language: "en", Model: "glm-asr-nano-2512", Duration: 3, SampleRate: 16000, Channels: 1}

	t.Run("happy path", func(t *testing.T) {
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.mp3").Return("uploads/audio/abc.mp3", nil)
		mTr.On("Transcribe", ctx, "uploads/audio/abc.mp3", "en").Return("hello there", md, nil)

		svc := newJournalService(nil, mUp, mTr, nil)

		res, err := svc.TranscribeUpload(ctx, r, "clip.mp3", "en")

		assert.NoError(t, err)
		assert.Equal(t, "success", res.Status)
		assert.Equal(t, "hello there", res.Text)
		assert.Equal(t, "uploads/audio/abc.mp3", res.AudioPath)
		assert.Equal(t, md, res.Metadata)
		mUp.AssertExpectations(t)
		mTr.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := newJournalService(nil, new(storeMocks.MockUploadStore), new(mockTranscriber), nil)

		_, err := svc.TranscribeUpload(ctx, nil, "clip.mp3", "en")

		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("unsupported format surfaces unchanged", func(t *testing.T) {
		mUp := new(storeMocks.MockUploadStore)
		r := strings.NewReader("x")
		mUp.On("Save", ctx, r, "notes.txt").Return("", storage.ErrUnsupportedFormat)

		svc := newJournalService(nil, mUp, new(mockTranscriber), nil)

		_, err := svc.TranscribeUpload(ctx, r, "notes.txt", "en")

		assert.ErrorIs(t, err, storage.ErrUnsupportedFormat)
	})

	t.Run("transcription failure deletes upload", func(t *testing.T) {
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.mp3").Return("uploads/audio/abc.mp3", nil)
		mTr.On("Transcribe", ctx, "uploads/audio/abc.mp3", "en").Return("", nil, ErrTranscription)
		mUp.On("Remove", "uploads/audio/abc.mp3").Return(nil)

		svc := newJournalService(nil, mUp, mTr, nil)

		_, err := svc.TranscribeUpload(ctx, r, "clip.mp3", "en")

		assert.ErrorIs(t, err, ErrTranscription)
		mUp.AssertExpectations(t)
	})
}

func TestJournalService_CreateFromAudio(t *testing.T) {
	ctx := context.Background()
	md := &asr.Metadata{Language: "en", Model: "glm-asr-nano-2512"}

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.wav").Return("uploads/audio/abc.wav", nil)
		mTr.On("Transcribe", ctx, "uploads/audio/abc.wav", "en").Return("dictated entry", md, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(e *model.JournalEntry) bool {
			return e.UserID == 1 && e.Content == "dictated entry" &&
				e.AudioPath != nil && *e.AudioPath == "uploads/audio/abc.wav"
		})).Return(&model.JournalEntry{ID: 9, UserID: 1, Content: "dictated entry"}, nil)

		svc := newJournalService(mRepo, mUp, mTr, nil)

		entry, err := svc.CreateFromAudio(ctx, r, "clip.wav", "en", 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), entry.ID)
		mRepo.AssertExpectations(t)
		mUp.AssertExpectations(t)
		mTr.AssertExpectations(t)
	})

	t.Run("db failure deletes upload", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.wav").Return("uploads/audio/abc.wav", nil)
		mTr.On("Transcribe", ctx, "uploads/audio/abc.wav", "en").Return("text", md, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mUp.On("Remove", "uploads/audio/abc.wav").Return(nil)

		svc := newJournalService(mRepo, mUp, mTr, nil)

		_, err := svc.CreateFromAudio(ctx, r, "clip.wav", "en", 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db save failed: db fail")
		mUp.AssertExpectations(t)
	})

	t.Run("db failure with failed rollback", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.wav").Return("uploads/audio/abc.wav", nil)
		mTr.On("Transcribe", ctx, "uploads/audio/abc.wav", "en").Return("text", md, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mUp.On("Remove", "uploads/audio/abc.wav").Return(errors.New("delete fail"))

		svc := newJournalService(mRepo, mUp, mTr, nil)

		_, err := svc.CreateFromAudio(ctx, r, "clip.wav", "en", 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rollback delete failed: delete fail")
	})

	t.Run("persisted audio is archived", func(t *testing.T) {
		// The archiver reads the stored artifact back from disk.
		dir := t.TempDir()
		path := filepath.Join(dir, "abc.wav")
		require.NoError(t, os.WriteFile(path, []byte("stored-audio"), 0o644))

		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		mArc := new(storeMocks.MockObjectStorage)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.wav").Return(path, nil)
		mTr.On("Transcribe", ctx, path, "en").Return("text", md, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(&model.JournalEntry{ID: 3}, nil)
		mArc.On("Put", ctx, "audio/abc.wav", mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.Size == int64(len("stored-audio"))
		})).Return(storage.ObjectInfo{Key: "audio/abc.wav"}, nil)

		svc := newJournalService(mRepo, mUp, mTr, mArc)

		_, err := svc.CreateFromAudio(ctx, r, "clip.wav", "en", 1)

		assert.NoError(t, err)
		mArc.AssertExpectations(t)
	})

	t.Run("archive failure does not fail the request", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "abc.wav")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)
		mArc := new(storeMocks.MockObjectStorage)
		r := strings.NewReader("audio")

		mUp.On("Save", ctx, r, "clip.wav").Return(path, nil)
		mTr.On("Transcribe", ctx, path, "en").Return("text", md, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(&model.JournalEntry{ID: 3}, nil)
		mArc.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket gone"))

		svc := newJournalService(mRepo, mUp, mTr, mArc)

		entry, err := svc.CreateFromAudio(ctx, r, "clip.wav", "en", 1)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), entry.ID)
	})
}

func TestJournalService_CreateFromText(t *testing.T) {
	ctx := context.Background()

	t.Run("content is normalized before persisting", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("Create", ctx, mock.MatchedBy(func(e *model.JournalEntry) bool {
			return e.Content == "Hello world." && e.AudioPath == nil && e.UserID == 1
		})).Return(&model.JournalEntry{ID: 1, UserID: 1, Content: "Hello world."}, nil)

		svc := newJournalService(mRepo, nil, nil, nil)

		entry, err := svc.CreateFromText(ctx, "  hello   world  ", 1)

		assert.NoError(t, err)
		assert.Equal(t, "Hello world.", entry.Content)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty content is accepted", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("Create", ctx, mock.MatchedBy(func(e *model.JournalEntry) bool {
			return e.Content == ""
		})).Return(&model.JournalEntry{ID: 2, UserID: 1}, nil)

		svc := newJournalService(mRepo, nil, nil, nil)

		_, err := svc.CreateFromText(ctx, "   ", 1)

		assert.NoError(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		svc := newJournalService(mRepo, nil, nil, nil)

		_, err := svc.CreateFromText(ctx, "text", 1)

		assert.Error(t, err)
	})
}

func TestJournalService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("FindByID", ctx, int64(5)).Return(&model.JournalEntry{ID: 5}, nil)

		svc := newJournalService(mRepo, nil, nil, nil)

		entry, err := svc.Get(ctx, 5)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), entry.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("FindByID", ctx, int64(404)).Return(nil, sql.ErrNoRows)

		svc := newJournalService(mRepo, nil, nil, nil)

		_, err := svc.Get(ctx, 404)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestJournalService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("List", ctx, int64(1), repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.JournalEntry]{
				Items: []model.JournalEntry{{ID: 2}, {ID: 1}},
				Total: 2,
			}, nil)

		svc := newJournalService(mRepo, nil, nil, nil)

		res, err := svc.List(ctx, 1, 10, 0)

		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("pagination boundary - zero limit uses default", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("List", ctx, int64(1), repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.JournalEntry]{Items: []model.JournalEntry{}, Total: 0}, nil)

		svc := newJournalService(mRepo, nil, nil, nil)

		_, err := svc.List(ctx, 1, 0, -1)

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("List", ctx, int64(1), mock.Anything).Return(nil, errors.New("db fail"))

		svc := newJournalService(mRepo, nil, nil, nil)

		_, err := svc.List(ctx, 1, 10, 0)

		assert.Error(t, err)
	})
}

func TestJournalService_Retranscribe(t *testing.T) {
	ctx := context.Background()
	audioPath := "uploads/audio/abc.wav"
	md := &asr.Metadata{Language: "en", Model: "glm-asr-nano-2512"}

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)

		mRepo.On("FindByID", ctx, int64(5)).
			Return(&model.JournalEntry{ID: 5, AudioPath: &audioPath, Content: "old text"}, nil)
		mUp.On("Exists", audioPath).Return(true)
		mTr.On("Transcribe", ctx, audioPath, "en").Return("better text", md, nil)
		mRepo.On("UpdateContent", ctx, int64(5), "better text").
			Return(&model.JournalEntry{ID: 5, AudioPath: &audioPath, Content: "better text"}, nil)

		svc := newJournalService(mRepo, mUp, mTr, nil)

		res, err := svc.Retranscribe(ctx, 5, "en")

		assert.NoError(t, err)
		assert.Equal(t, "success", res.Status)
		assert.Equal(t, int64(5), res.JournalID)
		assert.Equal(t, "better text", res.Text)
		mRepo.AssertExpectations(t)
	})

	t.Run("entry not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("FindByID", ctx, int64(404)).Return(nil, sql.ErrNoRows)

		svc := newJournalService(mRepo, new(storeMocks.MockUploadStore), new(mockTranscriber), nil)

		_, err := svc.Retranscribe(ctx, 404, "en")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no audio reference", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mRepo.On("FindByID", ctx, int64(5)).Return(&model.JournalEntry{ID: 5}, nil)

		svc := newJournalService(mRepo, new(storeMocks.MockUploadStore), new(mockTranscriber), nil)

		_, err := svc.Retranscribe(ctx, 5, "en")

		assert.ErrorIs(t, err, ErrNoAudio)
	})

	t.Run("audio file missing leaves content unchanged", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)

		mRepo.On("FindByID", ctx, int64(5)).
			Return(&model.JournalEntry{ID: 5, AudioPath: &audioPath, Content: "old text"}, nil)
		mUp.On("Exists", audioPath).Return(false)

		svc := newJournalService(mRepo, mUp, new(mockTranscriber), nil)

		_, err := svc.Retranscribe(ctx, 5, "en")

		assert.ErrorIs(t, err, ErrAudioMissing)
		mRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transcription failure leaves content unchanged", func(t *testing.T) {
		mRepo := new(repoMocks.MockJournalRepository)
		mUp := new(storeMocks.MockUploadStore)
		mTr := new(mockTranscriber)

		mRepo.On("FindByID", ctx, int64(5)).
			Return(&model.JournalEntry{ID: 5, AudioPath: &audioPath}, nil)
		mUp.On("Exists", audioPath).Return(true)
		mTr.On("Transcribe", ctx, audioPath, "en").Return("", nil, ErrTranscription)

		svc := newJournalService(mRepo, mUp, mTr, nil)

		_, err := svc.Retranscribe(ctx, 5, "en")

		assert.ErrorIs(t, err, ErrTranscription)
		mRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything)
	})
}

package mocks

import (
	"context"
	"io"

	"journalapi/internal/model"
	"journalapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) TranscribeUpload(ctx context.Context, r io.Reader, originalFilename, language string) (*service.TranscriptionResult, error) {
	args := m.Called(ctx, r, originalFilename, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TranscriptionResult), args.Error(1)
}

func (m *MockJournalService) CreateFromAudio(ctx context.Context, r io.Reader, originalFilename, language string, ownerID int64) (*model.JournalEntry, error) {
	args := m.Called(ctx, r, originalFilename, language, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalService) CreateFromText(ctx context.Context, content string, ownerID int64) (*model.JournalEntry, error) {
	args := m.Called(ctx, content, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalService) Get(ctx context.Context, id int64) (*model.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalService) List(ctx context.Context, ownerID int64, limit, offset int) (*service.JournalListResult, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JournalListResult), args.Error(1)
}

func (m *MockJournalService) Retranscribe(ctx context.Context, id int64, language string) (*service.RetranscriptionResult, error) {
	args := m.Called(ctx, id, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RetranscriptionResult), args.Error(1)
}

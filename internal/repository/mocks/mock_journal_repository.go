package mocks

import (
	"context"

	"journalapi/internal/model"
	"journalapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindByID(ctx context.Context, id int64) (*model.JournalEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateContent(ctx context.Context, id int64, content string) (*model.JournalEntry, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) List(ctx context.Context, ownerID int64, pq repository.PageQuery) (*repository.PageResult[model.JournalEntry], error) {
	args := m.Called(ctx, ownerID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.JournalEntry]), args.Error(1)
}

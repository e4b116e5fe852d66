package mocks

import (
	"context"
	"io"

	"journalapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockUploadStore struct {
	mock.Mock
}

func (m *MockUploadStore) Save(ctx context.Context, r io.Reader, originalFilename string) (string, error) {
	args := m.Called(ctx, r, originalFilename)
	return args.String(0), args.Error(1)
}

func (m *MockUploadStore) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockUploadStore) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return f(ctx, key, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

package mocks

import (
	"context"

	"journalapi/internal/audio"

	"github.com/stretchr/testify/mock"
)

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, src string) (string, func(), error) {
	args := m.Called(ctx, src)
	cleanup, _ := args.Get(1).(func())
	if cleanup == nil {
		cleanup = func() {}
	}
	return args.String(0), cleanup, args.Error(2)
}

func (m *MockConverter) Probe(ctx context.Context, path string) (audio.Info, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(audio.Info), args.Error(1)
}

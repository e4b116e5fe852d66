package mocks

import (
	"context"

	"journalapi/internal/asr"

	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Transcribe(ctx context.Context, wavPath, language string) (*asr.Result, error) {
	args := m.Called(ctx, wavPath, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asr.Result), args.Error(1)
}

func (m *MockEngine) Model() string {
	args := m.Called()
	return args.String(0)
}

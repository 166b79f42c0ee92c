package testutil

import (
	"context"

	"github.com/bridgeart/backend/pkg/errorx"
)

type MockImageGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return "", errorx.New(errorx.NotImplemented, "Not implemented")
}

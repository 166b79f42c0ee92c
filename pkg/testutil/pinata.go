package testutil

import (
	"context"
	"io"

	"github.com/bridgeart/backend/pkg/errorx"
)

type MockPinata struct {
	PinFileFunc func(ctx context.Context, name string, f io.Reader) (string, error)
	PinJSONFunc func(ctx context.Context, name string, content any) (string, error)
}

func (m *MockPinata) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	if m.PinFileFunc != nil {
		return m.PinFileFunc(ctx, name, f)
	}

	return "", errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockPinata) PinJSON(ctx context.Context, name string, content any) (string, error) {
	if m.PinJSONFunc != nil {
		return m.PinJSONFunc(ctx, name, content)
	}

	return "", errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockPinata) URI(hash string) string {
	return "ipfs://" + hash
}

func (m *MockPinata) GatewayURL(hash string) string {
	return "https://gateway.pinata.cloud/ipfs/" + hash
}

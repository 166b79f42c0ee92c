package pinata

import (
	"context"
	"io"
)

type IEndpoint interface {
	PinFile(ctx context.Context, name string, f io.Reader) (string, error)
	PinJSON(ctx context.Context, name string, content any) (string, error)
	URI(hash string) string
	GatewayURL(hash string) string
}

package testutil

import (
	"context"

	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc     func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
	BulkUploadFunc func(context.Context, []*storage.UploadObject) ([]*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockStorage) BulkUpload(
	ctx context.Context, obj []*storage.UploadObject,
) ([]*storage.UploadResponse, error) {
	if m.BulkUploadFunc != nil {
		return m.BulkUploadFunc(ctx, obj)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}

// NewEchoStorage returns a storage which answers every upload with a fake URL
// under base.
func NewEchoStorage(base string) *MockStorage {
	upload := func(_ context.Context, obj *storage.UploadObject) (*storage.UploadResponse, error) {
		return &storage.UploadResponse{
			Url:      base + "/" + obj.Prefix + "/" + obj.FileName,
			FileName: obj.FileName,
		}, nil
	}

	return &MockStorage{
		UploadFunc: upload,
		BulkUploadFunc: func(ctx context.Context, objs []*storage.UploadObject) ([]*storage.UploadResponse, error) {
			resps := make([]*storage.UploadResponse, 0, len(objs))
			for _, obj := range objs {
				resp, _ := upload(ctx, obj)
				resps = append(resps, resp)
			}
			return resps, nil
		},
	}
}

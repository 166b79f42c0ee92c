package storage

import "context"

// Storage stores public objects, such as artworks and their thumbnails.
type Storage interface {
	Upload(context.Context, *UploadObject) (*UploadResponse, error)
	BulkUpload(context.Context, []*UploadObject) ([]*UploadResponse, error)
}

type UploadObject struct {
	// Bucket falls back to the configured bucket when empty.
	Bucket       string
	Prefix       string
	FileName     string
	Mime         string
	CacheControl string
	Data         []byte
}

type UploadResponse struct {
	Url      string
	FileName string
}

package common

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/bridgeart/backend/pkg/api"
	"github.com/bridgeart/backend/pkg/errorx"
	"github.com/bridgeart/backend/pkg/storage"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/nfnt/resize"
)

const defaultThumbnailSize = 256

// Stored file names are unique, so their content never changes.
const imageCacheControl = "public, max-age=31536000, immutable"

type StoredImage struct {
	ImageURL     string
	ThumbnailURL string
}

// StoreImage uploads data together with a square-bounded thumbnail. The
// original bytes are uploaded unchanged.
func StoreImage(
	ctx context.Context, fileStorage storage.Storage, prefix, fileName string, data []byte,
) (*StoredImage, error) {
	mime := http.DetectContentType(data)
	img, err := decodeImg(mime, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	size := xcontext.Configs(ctx).File.ThumbnailSize
	if size <= 0 {
		size = defaultThumbnailSize
	}

	thumbnail := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos2)
	thumbnailData, err := encodeImg(mime, thumbnail)
	if err != nil {
		return nil, err
	}

	objs := []*storage.UploadObject{
		{
			Prefix:       prefix,
			FileName:     fileName,
			Mime:         mime,
			CacheControl: imageCacheControl,
			Data:         data,
		},
		{
			Prefix:       prefix,
			FileName:     fmt.Sprintf("%dx%d-%s", size, size, fileName),
			Mime:         mime,
			CacheControl: imageCacheControl,
			Data:         thumbnailData,
		},
	}

	resps, err := fileStorage.BulkUpload(ctx, objs)
	if err != nil {
		return nil, err
	}

	if len(resps) != len(objs) {
		return nil, fmt.Errorf("expected %d uploaded objects, got %d", len(objs), len(resps))
	}

	return &StoredImage{ImageURL: resps[0].Url, ThumbnailURL: resps[1].Url}, nil
}

// ProcessImage reads the multipart file under key and stores it with its
// thumbnail.
func ProcessImage(
	ctx context.Context, fileStorage storage.Storage, key, prefix string,
) (*StoredImage, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	if err := req.ParseMultipartForm(xcontext.Configs(ctx).File.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the File")
	}
	defer file.Close()

	if header.Size > xcontext.Configs(ctx).File.MaxSize {
		return nil, errorx.New(errorx.BadRequest, "File too large")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read uploaded file: %v", err)
		return nil, errorx.Unknown
	}

	stored, err := StoreImage(ctx, fileStorage, prefix, header.Filename, data)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot store uploaded image: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid image")
	}

	return stored, nil
}

// DownloadImage fetches an image from a fully qualified url.
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	resp, err := api.NewGenerator("").New(url).GET(ctx)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download %s returned status %d", url, resp.Code)
	}

	if !strings.HasPrefix(http.DetectContentType(resp.RawBody), "image/") {
		return nil, fmt.Errorf("download %s is not an image", url)
	}

	return resp.RawBody, nil
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("we just accept jpeg, gif or png, got %s", mime)
	}
	return img, err
}

func encodeImg(mime string, img image.Image) (b []byte, err error) {
	buf := new(bytes.Buffer)

	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("we just accept jpeg, gif or png, got %s", mime)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), err
}

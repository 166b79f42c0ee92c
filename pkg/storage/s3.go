package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/bridgeart/backend/config"
	"github.com/google/uuid"
)

type s3Storage struct {
	uploader *s3manager.Uploader
	cfg      config.S3Configs
}

func NewS3Storage(cfg config.S3Configs) (*s3Storage, error) {
	session, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(cfg.SSLDisabled),
	})
	if err != nil {
		return nil, err
	}

	return &s3Storage{
		uploader: s3manager.NewUploader(session),
		cfg:      cfg,
	}, nil
}

func (s *s3Storage) generateUploadURL(object *UploadObject) *UploadResponse {
	bucket := object.Bucket
	if bucket == "" {
		bucket = s.cfg.Bucket
	}

	fileName := fmt.Sprintf("%s-%s", uuid.NewString(), object.FileName)
	if object.Prefix != "" {
		fileName = object.Prefix + "/" + fileName
	}

	publicEndpoint := s.cfg.PublicEndpoint
	if publicEndpoint == "" {
		publicEndpoint = s.cfg.Endpoint
	}

	return &UploadResponse{
		Url:      fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(publicEndpoint, "/"), bucket, fileName),
		FileName: fileName,
	}
}

func (s *s3Storage) input(object *UploadObject, key string) *s3manager.UploadInput {
	bucket := object.Bucket
	if bucket == "" {
		bucket = s.cfg.Bucket
	}

	input := &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(object.Data),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(object.Mime),
	}

	if object.CacheControl != "" {
		input.CacheControl = aws.String(object.CacheControl)
	}

	return input
}

func (s *s3Storage) Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error) {
	resp := s.generateUploadURL(object)
	_, err := s.uploader.UploadWithContext(ctx, s.input(object, resp.FileName))
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w, key %s", err, resp.FileName)
	}

	return resp, nil
}

func (s *s3Storage) BulkUpload(ctx context.Context, objects []*UploadObject) ([]*UploadResponse, error) {
	bObjects := make([]s3manager.BatchUploadObject, 0, len(objects))
	out := make([]*UploadResponse, 0, len(objects))
	for _, o := range objects {
		resp := s.generateUploadURL(o)
		bObjects = append(bObjects, s3manager.BatchUploadObject{Object: s.input(o, resp.FileName)})
		out = append(out, resp)
	}

	if err := s.uploader.UploadWithIterator(ctx, &s3manager.UploadObjectsIterator{
		Objects: bObjects,
	}); err != nil {
		return nil, err
	}

	return out, nil
}

package storage

import (
	"context"
	"io"
	"time"
)

// Storage keeps uploaded images and generated audio in named buckets.
type Storage interface {
	Upload(ctx context.Context, bucket, path string, data io.Reader, contentType string) error
	Download(ctx context.Context, bucket, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, path string) error
	List(ctx context.Context, bucket string) ([]Object, error)
	GetPublicURL(bucket, path string) string
}

// Object describes a stored file.
type Object struct {
	Bucket  string
	Name    string
	Size    int64
	ModTime time.Time
}

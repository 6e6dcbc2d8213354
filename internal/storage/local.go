package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

var ErrInvalidPath = errors.New("invalid object path")

// LocalStorage maps buckets to directories below a root that is also served
// over HTTP under urlPrefix.
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root, urlPrefix string) *LocalStorage {
	return &LocalStorage{root: root, urlPrefix: urlPrefix}
}

// EnsureBuckets creates the bucket directories if they do not exist yet.
func (s *LocalStorage) EnsureBuckets(buckets ...string) error {
	for _, b := range buckets {
		if err := os.MkdirAll(filepath.Join(s.root, b), 0o755); err != nil {
			return fmt.Errorf("create bucket %s: %w", b, err)
		}
	}
	return nil
}

func (s *LocalStorage) Root() string { return s.root }

// LocalPath returns the filesystem path of an object.
func (s *LocalStorage) LocalPath(bucket, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return filepath.Join(s.root, bucket, name), nil
}

// Upload writes data to a temp file in the bucket and renames it into place,
// so readers never observe a partially written object.
func (s *LocalStorage) Upload(ctx context.Context, bucket, name string, data io.Reader, contentType string) error {
	dest, err := s.LocalPath(bucket, name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFileAtomic(dest, data)
}

func (s *LocalStorage) Download(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	p, err := s.LocalPath(bucket, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", bucket, name, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(ctx context.Context, bucket, name string) error {
	p, err := s.LocalPath(bucket, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s/%s: %w", bucket, name, err)
	}
	return nil
}

// List returns the regular files in a bucket. Entries that vanish while
// listing are skipped.
func (s *LocalStorage) List(ctx context.Context, bucket string) ([]Object, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, bucket))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", bucket, err)
	}
	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{
			Bucket:  bucket,
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return objects, nil
}

func (s *LocalStorage) GetPublicURL(bucket, name string) string {
	return path.Join(s.urlPrefix, bucket, name)
}

// WriteFileAtomic copies data into dest via a sibling temp file.
func WriteFileAtomic(dest string, data io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

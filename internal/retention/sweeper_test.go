package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikhilbhutani/braillevoice/internal/storage"
)

func writeAged(t *testing.T, dir, name string, size int, age time.Duration, now time.Time) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	mtime := now.Add(-age)
	if err := os.Chtimes(p, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestSweeper_RemovesExpired(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStorage(root, "/static")
	if err := store.EnsureBuckets("uploads", "audio"); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	writeAged(t, filepath.Join(root, "uploads"), "old.png", 100, 2*time.Hour, now)
	writeAged(t, filepath.Join(root, "uploads"), "fresh.png", 10, 10*time.Minute, now)
	writeAged(t, filepath.Join(root, "audio"), "old.mp3", 50, 61*time.Minute, now)
	writeAged(t, filepath.Join(root, "audio"), "edge.mp3", 5, 59*time.Minute, now)

	s := NewSweeper(store, time.Hour, "uploads", "audio")
	s.now = func() time.Time { return now }

	r := s.Sweep(context.Background())
	if r.Scanned != 4 || r.Removed != 2 || r.Bytes != 150 || len(r.Errors) != 0 {
		t.Errorf("report = %+v", r)
	}
	if exists(filepath.Join(root, "uploads", "old.png")) || exists(filepath.Join(root, "audio", "old.mp3")) {
		t.Error("expired files were not removed")
	}
	if !exists(filepath.Join(root, "uploads", "fresh.png")) || !exists(filepath.Join(root, "audio", "edge.mp3")) {
		t.Error("fresh files were removed")
	}
}

func TestSweeper_MissingBucket(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStorage(root, "/static")
	if err := store.EnsureBuckets("audio"); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	writeAged(t, filepath.Join(root, "audio"), "old.mp3", 1, 3*time.Hour, now)

	s := NewSweeper(store, time.Hour, "uploads", "audio")
	r := s.Sweep(context.Background())
	if r.Removed != 1 || len(r.Errors) != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestSweeper_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	store := storage.NewLocalStorage(root, "/static")
	if err := os.MkdirAll(filepath.Join(root, "uploads", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-5 * time.Hour)
	os.Chtimes(filepath.Join(root, "uploads", "nested"), old, old)

	r := NewSweeper(store, time.Hour, "uploads").Sweep(context.Background())
	if r.Removed != 0 {
		t.Errorf("report = %+v", r)
	}
	if !exists(filepath.Join(root, "uploads", "nested")) {
		t.Error("directory was removed")
	}
}

type failingStore struct {
	storage.Storage
	objects []storage.Object
}

func (f *failingStore) List(ctx context.Context, bucket string) ([]storage.Object, error) {
	if bucket == "broken" {
		return nil, errors.New("permission denied")
	}
	return f.objects, nil
}

func (f *failingStore) Delete(ctx context.Context, bucket, name string) error {
	if name == "locked" {
		return errors.New("busy")
	}
	return nil
}

func TestSweeper_ContinuesAfterErrors(t *testing.T) {
	old := time.Now().Add(-2 * time.Hour)
	store := &failingStore{objects: []storage.Object{
		{Name: "locked", Size: 1, ModTime: old},
		{Name: "free", Size: 2, ModTime: old},
	}}

	r := NewSweeper(store, time.Hour, "broken", "ok").Sweep(context.Background())
	if r.Removed != 1 || r.Bytes != 2 {
		t.Errorf("report = %+v", r)
	}
	if len(r.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", r.Errors)
	}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	sc := NewScheduler(NewSweeper(&failingStore{}, time.Hour))
	if err := sc.Start("not a schedule"); err == nil {
		t.Error("expected error for invalid spec")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	sc := NewScheduler(NewSweeper(&failingStore{}, time.Hour, "ok"))
	if err := sc.Start("@every 1h"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sc.Stop(ctx)
}

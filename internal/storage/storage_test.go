package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"My cool photo.jpg", "My_cool_photo.jpg"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\scan.png`, "C_Users_me_scan.png"},
		{"résumé.jpeg", "resume.jpeg"},
		{"  .hidden  ", "hidden"},
		{"नमस्ते", ""},
		{"a$b%c.png", "abc.png"},
	}
	for _, tt := range tests {
		if got := SecureFilename(tt.in); got != tt.want {
			t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUploadName_FallsBackToRandom(t *testing.T) {
	got := UploadName("नमस्ते.png")
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("expected .png suffix, got %q", got)
	}
	if len(got) != 36+len(".png") {
		t.Errorf("expected uuid based name, got %q", got)
	}
	if UploadName("नमस्ते.png") == got {
		t.Error("random names should differ between calls")
	}
	if got := UploadName("My photo.JPG"); got != "My_photo.JPG" {
		t.Errorf("UploadName kept %q", got)
	}
	if got := UploadName("scan"); got != "scan" {
		t.Errorf("UploadName(scan) = %q", got)
	}
}

func TestSiblingName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"photo.png", "photo.mp3"},
		{"archive.tar.jpg", "archive.tar.mp3"},
		{"noext", "noext.mp3"},
	}
	for _, tt := range tests {
		if got := SiblingName(tt.in, ".mp3"); got != tt.want {
			t.Errorf("SiblingName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir(), "/static")
	if err := s.EnsureBuckets("uploads", "audio"); err != nil {
		t.Fatalf("EnsureBuckets: %v", err)
	}

	if err := s.Upload(ctx, "uploads", "a.png", strings.NewReader("png-bytes"), "image/png"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, err := s.Download(ctx, "uploads", "a.png")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "png-bytes" {
		t.Errorf("Download returned %q", data)
	}

	objs, err := s.List(ctx, "uploads")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 1 || objs[0].Name != "a.png" || objs[0].Size != int64(len("png-bytes")) {
		t.Errorf("List returned %+v", objs)
	}

	if got := s.GetPublicURL("uploads", "a.png"); got != "/static/uploads/a.png" {
		t.Errorf("GetPublicURL = %q", got)
	}

	if err := s.Delete(ctx, "uploads", "a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "uploads", "a.png"); err != nil {
		t.Errorf("deleting a missing object should be a no-op, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "uploads", "a.png")); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/static")
	for _, name := range []string{"", "..", "../x.png", "sub/x.png"} {
		err := s.Upload(context.Background(), "uploads", name, strings.NewReader("x"), "image/png")
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Upload(%q) error = %v, want ErrInvalidPath", name, err)
		}
	}
}

func TestLocalStorage_ListMissingBucket(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/static")
	if _, err := s.List(context.Background(), "nope"); err == nil {
		t.Error("expected error listing a missing bucket")
	}
}

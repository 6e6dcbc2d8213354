// Package retention removes stored uploads and generated audio once they
// outlive the retention window.
package retention

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nikhilbhutani/braillevoice/internal/storage"
)

const DefaultWindow = time.Hour

// Report summarizes one sweep.
type Report struct {
	Scanned int
	Removed int
	Bytes   int64
	Errors  []error
}

// Sweeper deletes objects older than a window from a fixed set of buckets.
// It does not coordinate with in-flight requests; a file may vanish between
// being written and being served if it is already older than the window.
type Sweeper struct {
	store   storage.Storage
	buckets []string
	window  time.Duration
	now     func() time.Time
}

func NewSweeper(store storage.Storage, window time.Duration, buckets ...string) *Sweeper {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Sweeper{
		store:   store,
		buckets: buckets,
		window:  window,
		now:     time.Now,
	}
}

// Sweep removes expired objects using the configured window.
func (s *Sweeper) Sweep(ctx context.Context) Report {
	return s.SweepOlderThan(ctx, s.window)
}

// SweepOlderThan removes every object whose modification time is more than
// window in the past. Failures are collected in the report and never stop
// the sweep. Missing buckets are skipped.
func (s *Sweeper) SweepOlderThan(ctx context.Context, window time.Duration) Report {
	var r Report
	cutoff := s.now().Add(-window)

	for _, bucket := range s.buckets {
		if err := ctx.Err(); err != nil {
			r.Errors = append(r.Errors, err)
			break
		}
		objects, err := s.store.List(ctx, bucket)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Error("sweep: list bucket failed", "bucket", bucket, "error", err)
				r.Errors = append(r.Errors, err)
			}
			continue
		}
		for _, obj := range objects {
			r.Scanned++
			if !obj.ModTime.Before(cutoff) {
				continue
			}
			if err := s.store.Delete(ctx, bucket, obj.Name); err != nil {
				slog.Error("sweep: delete failed", "bucket", bucket, "name", obj.Name, "error", err)
				r.Errors = append(r.Errors, fmt.Errorf("%s/%s: %w", bucket, obj.Name, err))
				continue
			}
			r.Removed++
			r.Bytes += obj.Size
		}
	}

	slog.Info("sweep finished",
		"scanned", r.Scanned,
		"removed", r.Removed,
		"freed", humanize.Bytes(uint64(r.Bytes)),
		"errors", len(r.Errors),
	)
	return r
}

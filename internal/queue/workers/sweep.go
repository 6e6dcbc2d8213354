package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/braillevoice/internal/queue"
	"github.com/nikhilbhutani/braillevoice/internal/retention"
)

// SweepWorker runs the retention sweep for scheduled files:sweep tasks.
type SweepWorker struct {
	sweeper *retention.Sweeper
}

func NewSweepWorker(s *retention.Sweeper) *SweepWorker {
	return &SweepWorker{sweeper: s}
}

func (w *SweepWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.FilesSweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	var report retention.Report
	if payload.MaxAge > 0 {
		report = w.sweeper.SweepOlderThan(ctx, payload.MaxAge)
	} else {
		report = w.sweeper.Sweep(ctx)
	}

	slog.Info("files sweep task done", "removed", report.Removed, "errors", len(report.Errors))
	if err := ctx.Err(); err != nil {
		return err
	}
	if report.Removed == 0 && len(report.Errors) > 0 {
		return fmt.Errorf("sweep failed: %w", errors.Join(report.Errors...))
	}
	return nil
}

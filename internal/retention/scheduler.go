package retention

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Sweeper periodically inside the serving process.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
}

func NewScheduler(s *Sweeper) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		sweeper: s,
	}
}

// Start registers the sweep under a cron spec such as "@every 1h" and
// starts the scheduler goroutine.
func (sc *Scheduler) Start(spec string) error {
	if _, err := sc.cron.AddFunc(spec, func() {
		sc.sweeper.Sweep(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", spec, err)
	}
	sc.cron.Start()
	slog.Info("retention sweeper scheduled", "spec", spec)
	return nil
}

// Stop halts scheduling and blocks until a running sweep finishes or ctx is done.
func (sc *Scheduler) Stop(ctx context.Context) {
	done := sc.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

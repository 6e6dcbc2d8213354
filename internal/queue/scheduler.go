package queue

import (
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Scheduler enqueues periodic tasks.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(opt asynq.RedisConnOpt) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{
			PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
				if err != nil {
					slog.Warn("scheduled enqueue failed", "error", err)
					return
				}
				slog.Info("scheduled task enqueued", "type", info.Type, "id", info.ID)
			},
		}),
	}
}

// RegisterFilesSweep schedules the sweep under a cron spec like "@every 1h".
func (s *Scheduler) RegisterFilesSweep(spec string, payload FilesSweepPayload) (string, error) {
	task, err := newTask(TypeFilesSweep, payload)
	if err != nil {
		return "", err
	}
	id, err := s.scheduler.Register(spec, task, sweepOptions()...)
	if err != nil {
		return "", fmt.Errorf("register %s: %w", TypeFilesSweep, err)
	}
	return id, nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

// RedisOpt converts a redis:// URL into asynq connection options.
func RedisOpt(url string) (asynq.RedisConnOpt, error) {
	opt, err := asynq.ParseRedisURI(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opt, nil
}

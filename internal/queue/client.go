package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

type Client struct {
	client *asynq.Client
}

func NewClient(opt asynq.RedisConnOpt) *Client {
	return &Client{
		client: asynq.NewClient(opt),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueFilesSweep asks a worker to run a sweep now.
func (c *Client) EnqueueFilesSweep(payload FilesSweepPayload) error {
	return c.enqueue(TypeFilesSweep, payload, sweepOptions()...)
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	task, err := newTask(taskType, payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(taskType, data), nil
}

// sweepOptions keeps overlapping sweeps from piling up.
func sweepOptions() []asynq.Option {
	return []asynq.Option{
		asynq.MaxRetry(1),
		asynq.Timeout(10 * time.Minute),
		asynq.Unique(30 * time.Minute),
	}
}

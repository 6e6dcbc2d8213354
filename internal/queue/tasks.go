package queue

import "time"

const (
	TypeFilesSweep = "files:sweep"
)

// FilesSweepPayload carries an optional override of the retention window.
// A zero MaxAge uses the worker's configured window.
type FilesSweepPayload struct {
	MaxAge time.Duration `json:"max_age,omitempty"`
}

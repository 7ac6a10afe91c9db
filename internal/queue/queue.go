package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"page-slicer/internal/page"
	"page-slicer/internal/retry"
)

// TaskType enumerates supported task categories.
type TaskType string

const (
	TaskTypeSlice TaskType = "slice"
)

// Task represents a unit of work passed between the gateway and workers.
type Task struct {
	ID          uuid.UUID
	Type        TaskType
	Payload     []byte
	Attempts    int
	MaxAttempts int
	NotBefore   time.Time
}

// SlicePayload is the body of a slice task: one document as an ordered list
// of page texts plus its metadata.
type SlicePayload struct {
	Name     string        `json:"name"`
	Metadata page.Metadata `json:"metadata"`
	Text     []string      `json:"text"`
}

// NewSliceTask wraps p into a slice task.
func NewSliceTask(p SlicePayload) (Task, error) {
	if p.Name == "" {
		return Task{}, fmt.Errorf("slice task: name required")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return Task{}, fmt.Errorf("slice task: %w", err)
	}
	return Task{ID: uuid.New(), Type: TaskTypeSlice, Payload: body}, nil
}

// DecodeSlice reads the slice payload of t.
func DecodeSlice(t Task) (SlicePayload, error) {
	if t.Type != TaskTypeSlice {
		return SlicePayload{}, fmt.Errorf("unexpected task type %q", t.Type)
	}
	var p SlicePayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		return SlicePayload{}, fmt.Errorf("decode slice payload: %w", err)
	}
	return p, nil
}

type Handler func(context.Context, Task) error

// Queue exposes a minimal contract to enqueue and consume tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
}

// EnqueueWithRetry attempts to enqueue with retries and exponential backoff.
func EnqueueWithRetry(ctx context.Context, q Queue, task Task, attempts int, base time.Duration) error {
	return retry.Do(ctx, attempts, base, func(ctx context.Context) error {
		return q.Enqueue(ctx, task)
	})
}

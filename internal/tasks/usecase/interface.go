package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/booking/internal/event/domain"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// TaskRepository defines the interface for task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *tasksDomain.Task) error
	GetDueTasks(ctx context.Context, limit int, now time.Time) ([]*tasksDomain.Task, error)
	Update(ctx context.Context, task *tasksDomain.Task) error
}

// EventRepository defines the interface for appending audit events.
type EventRepository interface {
	Create(ctx context.Context, event *eventDomain.Event) error
}

// Handler processes one task. The payload has already been decoded and
// validated for the task's type. A returned error triggers a retry unless it
// is an input or configuration error, which fails the task permanently.
type Handler interface {
	Handle(ctx context.Context, task *tasksDomain.Task, payload tasksDomain.Payload) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, task *tasksDomain.Task, payload tasksDomain.Payload) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, task *tasksDomain.Task, payload tasksDomain.Payload) error {
	return f(ctx, task, payload)
}

// RunResult reports the outcome of one runner batch.
type RunResult struct {
	// Processed counts tasks that completed successfully.
	Processed int
	// Total counts tasks picked up in the batch.
	Total int
}

// TaskUseCase defines the interface for the task queue: enqueueing deferred
// work and running batches of due tasks.
type TaskUseCase interface {
	// Enqueue validates and persists a queued task due at runAt.
	Enqueue(
		ctx context.Context,
		orgID uuid.UUID,
		leadID *uuid.UUID,
		taskType string,
		payload tasksDomain.Payload,
		runAt time.Time,
	) (*tasksDomain.Task, error)

	// Run processes one batch of due tasks. A single task's failure never
	// aborts the batch.
	Run(ctx context.Context) (*RunResult, error)
}

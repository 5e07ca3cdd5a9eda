package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/metrics"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// taskUseCaseWithMetrics decorates TaskUseCase with metrics instrumentation.
type taskUseCaseWithMetrics struct {
	next    TaskUseCase
	metrics metrics.BusinessMetrics
}

// NewTaskUseCaseWithMetrics wraps a TaskUseCase with metrics recording.
func NewTaskUseCaseWithMetrics(useCase TaskUseCase, m metrics.BusinessMetrics) TaskUseCase {
	return &taskUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Enqueue records metrics for task enqueueing.
func (t *taskUseCaseWithMetrics) Enqueue(
	ctx context.Context,
	orgID uuid.UUID,
	leadID *uuid.UUID,
	taskType string,
	payload tasksDomain.Payload,
	runAt time.Time,
) (*tasksDomain.Task, error) {
	start := time.Now()
	task, err := t.next.Enqueue(ctx, orgID, leadID, taskType, payload, runAt)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "tasks", "enqueue", status)
	t.metrics.RecordDuration(ctx, "tasks", "enqueue", time.Since(start), status)

	return task, err
}

// Run records metrics for runner batches.
func (t *taskUseCaseWithMetrics) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result, err := t.next.Run(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "tasks", "run", status)
	t.metrics.RecordDuration(ctx, "tasks", "run", time.Since(start), status)

	return result, err
}

// Package usecase implements the task queue: a durable, retryable unit of
// deferred work. The runner selects due tasks FIFO inside one transaction,
// dispatches each to its registered handler, and applies exponential backoff
// on failure. One task's failure never aborts the batch.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/clock"
	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// DefaultBatchSize bounds how many due tasks one Run invocation picks up.
const DefaultBatchSize = 20

// taskUseCase implements the TaskUseCase interface.
type taskUseCase struct {
	txManager  database.TxManager
	taskRepo   TaskRepository
	eventRepo  EventRepository
	registry   *Registry
	clock      clock.Clock
	logger     *slog.Logger
	batchSize  int
	maxRetries int
}

// NewTaskUseCase creates a new task queue use case instance.
func NewTaskUseCase(
	txManager database.TxManager,
	taskRepo TaskRepository,
	eventRepo EventRepository,
	registry *Registry,
	clk clock.Clock,
	logger *slog.Logger,
	batchSize int,
	maxRetries int,
) TaskUseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxRetries <= 0 {
		maxRetries = tasksDomain.MaxRetries
	}
	return &taskUseCase{
		txManager:  txManager,
		taskRepo:   taskRepo,
		eventRepo:  eventRepo,
		registry:   registry,
		clock:      clk,
		logger:     logger,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// Enqueue validates and persists a queued task due at runAt.
func (t *taskUseCase) Enqueue(
	ctx context.Context,
	orgID uuid.UUID,
	leadID *uuid.UUID,
	taskType string,
	payload tasksDomain.Payload,
	runAt time.Time,
) (*tasksDomain.Task, error) {
	encoded, err := tasksDomain.EncodePayload(payload)
	if err != nil {
		return nil, err
	}
	if _, ok := t.registry.Get(taskType); !ok {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "no handler registered for task type "+taskType)
	}

	now := t.clock.Now()
	if runAt.IsZero() {
		runAt = now
	}

	task := &tasksDomain.Task{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		Type:      taskType,
		Payload:   encoded,
		Status:    tasksDomain.TaskStatusQueued,
		RunAt:     runAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Run processes one batch of due tasks inside a single transaction. Due
// tasks are selected oldest first with FOR UPDATE SKIP LOCKED, so overlapping
// runner invocations never process the same task twice.
func (t *taskUseCase) Run(ctx context.Context) (*RunResult, error) {
	now := t.clock.Now()
	result := &RunResult{}

	err := t.txManager.WithTx(ctx, func(txCtx context.Context) error {
		tasks, err := t.taskRepo.GetDueTasks(txCtx, t.batchSize, now)
		if err != nil {
			return err
		}
		result.Total = len(tasks)

		for _, task := range tasks {
			if t.processTask(txCtx, task, now) {
				result.Processed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// processTask runs a single task through decode, dispatch and state update.
// It reports whether the task completed successfully. Errors are contained:
// they mark the task for retry or permanent failure but never propagate.
func (t *taskUseCase) processTask(ctx context.Context, task *tasksDomain.Task, now time.Time) bool {
	payload, err := tasksDomain.DecodePayload(task.Type, task.Payload)
	if err != nil {
		// Unknown types and malformed payloads cannot succeed on retry.
		t.failTask(ctx, task, now, err)
		return false
	}

	handler, ok := t.registry.Get(task.Type)
	if !ok {
		t.failTask(ctx, task, now,
			apperrors.Wrap(apperrors.ErrConfiguration, "no handler registered for task type "+task.Type))
		return false
	}

	task.Status = tasksDomain.TaskStatusRunning
	task.UpdatedAt = now
	if err := t.taskRepo.Update(ctx, task); err != nil {
		t.logger.Error("failed to mark task running",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	if err := handler.Handle(ctx, task, payload); err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidInput) || apperrors.Is(err, apperrors.ErrConfiguration) {
			t.failTask(ctx, task, now, err)
		} else {
			t.retryTask(ctx, task, now, err)
		}
		return false
	}

	task.Status = tasksDomain.TaskStatusDone
	task.LastError = nil
	task.UpdatedAt = now
	if err := t.taskRepo.Update(ctx, task); err != nil {
		t.logger.Error("failed to mark task done",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// retryTask schedules a failed task for another attempt, or fails it
// permanently once the retry budget is spent.
func (t *taskUseCase) retryTask(ctx context.Context, task *tasksDomain.Task, now time.Time, handlerErr error) {
	task.RetryCount++
	if task.RetryCount >= t.maxRetries {
		t.failTask(ctx, task, now, handlerErr)
		return
	}

	message := handlerErr.Error()
	task.Status = tasksDomain.TaskStatusQueued
	task.RunAt = now.Add(tasksDomain.Backoff(task.RetryCount))
	task.LastError = &message
	task.UpdatedAt = now

	if err := t.taskRepo.Update(ctx, task); err != nil {
		t.logger.Error("failed to reschedule task",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	t.logger.Warn("task failed, scheduled retry",
		slog.String("task_id", task.ID.String()),
		slog.String("type", task.Type),
		slog.Int("retry_count", task.RetryCount),
		slog.Time("run_at", task.RunAt),
		slog.String("error", message),
	)
	t.emitTaskError(ctx, task, message)
}

// failTask marks a task permanently failed.
func (t *taskUseCase) failTask(ctx context.Context, task *tasksDomain.Task, now time.Time, handlerErr error) {
	message := handlerErr.Error()
	task.Status = tasksDomain.TaskStatusFailed
	task.LastError = &message
	task.UpdatedAt = now

	if err := t.taskRepo.Update(ctx, task); err != nil {
		t.logger.Error("failed to mark task failed",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	t.logger.Error("task failed permanently",
		slog.String("task_id", task.ID.String()),
		slog.String("type", task.Type),
		slog.Int("retry_count", task.RetryCount),
		slog.String("error", message),
	)
	t.emitTaskError(ctx, task, message)
}

// emitTaskError appends a task_error event, best effort.
func (t *taskUseCase) emitTaskError(ctx context.Context, task *tasksDomain.Task, message string) {
	metadata, err := taskErrorMetadata(task, message)
	if err != nil {
		t.logger.Error("failed to marshal task error metadata", slog.String("error", err.Error()))
		return
	}
	event := &eventDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     task.OrgID,
		LeadID:    task.LeadID,
		Type:      eventDomain.TypeTaskError,
		Metadata:  metadata,
		CreatedAt: t.clock.Now(),
	}
	if err := t.eventRepo.Create(ctx, event); err != nil {
		t.logger.Error("failed to append task error event",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// taskErrorMetadata builds the JSON metadata for a task_error event.
func taskErrorMetadata(task *tasksDomain.Task, message string) (string, error) {
	data, err := json.Marshal(map[string]any{
		"task_id":     task.ID.String(),
		"task_type":   task.Type,
		"retry_count": task.RetryCount,
		"status":      task.Status,
		"error":       message,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Package domain defines the task queue entities: durable, retryable units
// of deferred work dispatched to registered handlers.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusQueued  TaskStatus = "queued"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusFailed  TaskStatus = "failed"
)

// Task types known to the handler registry.
const (
	TypeScheduleReminders = "schedule_reminders"
	TypeSendReminder      = "send_reminder"
	TypeCalendarSync      = "calendar_sync"
	TypeSendFollowup      = "send_followup"
	TypeNotifyAdmin       = "notify_admin"
)

// MaxRetries is the number of handler attempts before a task is marked
// failed permanently.
const MaxRetries = 3

// Task is a persisted unit of deferred work. The queue runner owns status,
// run_at and retry_count; the handler owns payload interpretation.
type Task struct {
	ID    uuid.UUID
	OrgID uuid.UUID
	// LeadID is nil for tasks not tied to a specific lead.
	LeadID *uuid.UUID
	Type   string
	// Payload is a JSON document whose shape is keyed by Type.
	Payload string
	Status  TaskStatus
	// RunAt is the earliest instant the task becomes due. It never
	// decreases across retries of the same task.
	RunAt time.Time
	// RetryCount is monotonically non-decreasing and bounded by MaxRetries.
	RetryCount int
	// LastError holds the most recent handler error message (nil if none).
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Backoff returns the retry delay after the given attempt number (1-based):
// 1 minute, then 4, then 16.
func Backoff(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	delay := time.Minute
	for i := 1; i < retry; i++ {
		delay *= 4
	}
	return delay
}

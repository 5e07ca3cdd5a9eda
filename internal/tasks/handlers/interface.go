// Package handlers implements the task handlers dispatched by the queue
// runner. Each handler performs one unit of collaborator work and may
// enqueue follow-on tasks, chaining multi-step flows through the queue.
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	orgDomain "github.com/allisson/booking/internal/org/domain"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// AppointmentRepository defines the appointment lookups handlers need.
type AppointmentRepository interface {
	GetByID(ctx context.Context, appointmentID uuid.UUID) (*bookingDomain.Appointment, error)
	SetCalendarEventID(ctx context.Context, appointmentID uuid.UUID, eventID string) error
}

// OrgRepository defines the org-level lookups handlers need.
type OrgRepository interface {
	GetOrg(ctx context.Context, orgID uuid.UUID) (*orgDomain.Org, error)
	GetConfig(ctx context.Context, orgID uuid.UUID) (*orgDomain.Config, error)
	GetLead(ctx context.Context, leadID uuid.UUID) (*orgDomain.Lead, error)
	CreateMessage(ctx context.Context, message *orgDomain.Message) error
}

// EventRepository defines the interface for appending audit events.
type EventRepository interface {
	Create(ctx context.Context, event *eventDomain.Event) error
}

// TaskEnqueuer enqueues follow-on tasks from within a handler.
type TaskEnqueuer interface {
	Enqueue(
		ctx context.Context,
		orgID uuid.UUID,
		leadID *uuid.UUID,
		taskType string,
		payload tasksDomain.Payload,
		runAt time.Time,
	) (*tasksDomain.Task, error)
}

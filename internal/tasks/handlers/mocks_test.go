package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	eventDomain "github.com/allisson/booking/internal/event/domain"
	orgDomain "github.com/allisson/booking/internal/org/domain"
	"github.com/allisson/booking/internal/provider"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) GetByID(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*bookingDomain.Appointment, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepository) SetCalendarEventID(
	ctx context.Context,
	appointmentID uuid.UUID,
	eventID string,
) error {
	args := m.Called(ctx, appointmentID, eventID)
	return args.Error(0)
}

type mockOrgRepository struct {
	mock.Mock
}

func (m *mockOrgRepository) GetOrg(ctx context.Context, orgID uuid.UUID) (*orgDomain.Org, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgDomain.Org), args.Error(1)
}

func (m *mockOrgRepository) GetConfig(ctx context.Context, orgID uuid.UUID) (*orgDomain.Config, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgDomain.Config), args.Error(1)
}

func (m *mockOrgRepository) GetLead(ctx context.Context, leadID uuid.UUID) (*orgDomain.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgDomain.Lead), args.Error(1)
}

func (m *mockOrgRepository) CreateMessage(ctx context.Context, message *orgDomain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockTaskEnqueuer struct {
	mock.Mock
}

func (m *mockTaskEnqueuer) Enqueue(
	ctx context.Context,
	orgID uuid.UUID,
	leadID *uuid.UUID,
	taskType string,
	payload tasksDomain.Payload,
	runAt time.Time,
) (*tasksDomain.Task, error) {
	args := m.Called(ctx, orgID, leadID, taskType, payload, runAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasksDomain.Task), args.Error(1)
}

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) SendSMS(ctx context.Context, orgID uuid.UUID, to, body string) error {
	args := m.Called(ctx, orgID, to, body)
	return args.Error(0)
}

func (m *mockMessenger) SendEmail(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

type mockCalendar struct {
	mock.Mock
}

func (m *mockCalendar) GetFreeBusy(
	ctx context.Context,
	orgID uuid.UUID,
	timeMin, timeMax time.Time,
) ([]bookingDomain.BusyInterval, error) {
	args := m.Called(ctx, orgID, timeMin, timeMax)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingDomain.BusyInterval), args.Error(1)
}

func (m *mockCalendar) CreateEvent(ctx context.Context, orgID uuid.UUID, event provider.CalendarEvent) (string, error) {
	args := m.Called(ctx, orgID, event)
	return args.String(0), args.Error(1)
}

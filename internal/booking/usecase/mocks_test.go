package usecase

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

// fakeTxManager runs the transactional function directly against the same
// context, so mocks observe the calls made inside WithTx.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockHoldRepository struct {
	mock.Mock
}

func (m *mockHoldRepository) Create(ctx context.Context, hold *bookingDomain.Hold) error {
	args := m.Called(ctx, hold)
	return args.Error(0)
}

func (m *mockHoldRepository) GetByID(ctx context.Context, holdID uuid.UUID) (*bookingDomain.Hold, error) {
	args := m.Called(ctx, holdID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Hold), args.Error(1)
}

func (m *mockHoldRepository) ListActiveOverlapping(
	ctx context.Context,
	orgID uuid.UUID,
	start, end, now time.Time,
) ([]*bookingDomain.Hold, error) {
	args := m.Called(ctx, orgID, start, end, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Hold), args.Error(1)
}

func (m *mockHoldRepository) ListActiveIntervals(
	ctx context.Context,
	orgID uuid.UUID,
	now time.Time,
) ([]bookingDomain.BusyInterval, error) {
	args := m.Called(ctx, orgID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingDomain.BusyInterval), args.Error(1)
}

type mockAppointmentRepository struct {
	mock.Mock
}

func (m *mockAppointmentRepository) Create(ctx context.Context, appointment *bookingDomain.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
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

func (m *mockAppointmentRepository) ListActiveOverlapping(
	ctx context.Context,
	orgID uuid.UUID,
	start, end, now time.Time,
) ([]*bookingDomain.Appointment, error) {
	args := m.Called(ctx, orgID, start, end, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*bookingDomain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepository) ListActiveIntervals(
	ctx context.Context,
	orgID uuid.UUID,
	now time.Time,
) ([]bookingDomain.BusyInterval, error) {
	args := m.Called(ctx, orgID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingDomain.BusyInterval), args.Error(1)
}

func (m *mockAppointmentRepository) UpdateStatus(
	ctx context.Context,
	appointmentID uuid.UUID,
	status bookingDomain.AppointmentStatus,
) error {
	args := m.Called(ctx, appointmentID, status)
	return args.Error(0)
}

func (m *mockAppointmentRepository) SetCalendarEventID(
	ctx context.Context,
	appointmentID uuid.UUID,
	eventID string,
) error {
	args := m.Called(ctx, appointmentID, eventID)
	return args.Error(0)
}

func (m *mockAppointmentRepository) CancelExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *bookingDomain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*bookingDomain.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingDomain.Payment), args.Error(1)
}

func (m *mockPaymentRepository) UpdateStatus(
	ctx context.Context,
	paymentID uuid.UUID,
	status bookingDomain.PaymentStatus,
) error {
	args := m.Called(ctx, paymentID, status)
	return args.Error(0)
}

type mockOrgRepository struct {
	mock.Mock
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

func (m *mockOrgRepository) UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status orgDomain.LeadStatus) error {
	args := m.Called(ctx, leadID, status)
	return args.Error(0)
}

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockFollowupStarter struct {
	mock.Mock
}

func (m *mockFollowupStarter) Start(ctx context.Context, lead *orgDomain.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type mockTaskQueue struct {
	mock.Mock
}

func (m *mockTaskQueue) Enqueue(
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

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) CreatePaymentIntent(
	ctx context.Context,
	orgID uuid.UUID,
	amountCents int64,
	currency string,
	metadata map[string]string,
) (*provider.PaymentIntent, error) {
	args := m.Called(ctx, orgID, amountCents, currency, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PaymentIntent), args.Error(1)
}

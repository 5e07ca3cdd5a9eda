package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
	tasksUseCase "github.com/allisson/booking/internal/tasks/usecase"
)

type mockTaskUseCase struct {
	mock.Mock
}

func (m *mockTaskUseCase) Enqueue(
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

func (m *mockTaskUseCase) Run(ctx context.Context) (*tasksUseCase.RunResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasksUseCase.RunResult), args.Error(1)
}

type mockBookingUseCase struct {
	mock.Mock
}

func (m *mockBookingUseCase) ListSlots(ctx context.Context, orgID uuid.UUID) ([]bookingDomain.Slot, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookingDomain.Slot), args.Error(1)
}

func (m *mockBookingUseCase) CreateHold(
	ctx context.Context,
	input bookingUseCase.CreateHoldInput,
) (*bookingUseCase.CreateHoldOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingUseCase.CreateHoldOutput), args.Error(1)
}

func (m *mockBookingUseCase) BeginPayment(
	ctx context.Context,
	input bookingUseCase.BeginPaymentInput,
) (*bookingUseCase.BeginPaymentOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingUseCase.BeginPaymentOutput), args.Error(1)
}

func (m *mockBookingUseCase) ConfirmPayment(ctx context.Context, intentID string) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

func (m *mockBookingUseCase) FailPayment(ctx context.Context, intentID string) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

func (m *mockBookingUseCase) CleanupExpiredHolds(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	eventDomain "github.com/allisson/booking/internal/event/domain"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// fakeTxManager runs the transactional function directly against the same
// context, so mocks observe the calls made inside WithTx.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockTaskRepository struct {
	mock.Mock
}

func (m *mockTaskRepository) Create(ctx context.Context, task *tasksDomain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskRepository) GetDueTasks(ctx context.Context, limit int, now time.Time) ([]*tasksDomain.Task, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasksDomain.Task), args.Error(1)
}

func (m *mockTaskRepository) Update(ctx context.Context, task *tasksDomain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

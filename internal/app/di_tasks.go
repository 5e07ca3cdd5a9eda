package app

import (
	"fmt"

	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
	"github.com/allisson/booking/internal/tasks/handlers"
	tasksHTTP "github.com/allisson/booking/internal/tasks/http"
	tasksRepository "github.com/allisson/booking/internal/tasks/repository"
	tasksUseCase "github.com/allisson/booking/internal/tasks/usecase"
)

// TaskRepository returns the task repository instance.
func (c *Container) TaskRepository() (tasksUseCase.TaskRepository, error) {
	var err error
	c.taskRepoInit.Do(func() {
		c.taskRepo, err = c.initTaskRepository()
		if err != nil {
			c.initErrors["taskRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskRepo"]; exists {
		return nil, storedErr
	}
	return c.taskRepo, nil
}

// TaskUseCase returns the task queue use case with all handlers registered.
func (c *Container) TaskUseCase() (tasksUseCase.TaskUseCase, error) {
	var err error
	c.taskUseCaseInit.Do(func() {
		c.taskUseCase, err = c.initTaskUseCase()
		if err != nil {
			c.initErrors["taskUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskUseCase"]; exists {
		return nil, storedErr
	}
	return c.taskUseCase, nil
}

// TaskHandler returns the task trigger HTTP handler instance.
func (c *Container) TaskHandler() (*tasksHTTP.TaskHandler, error) {
	var err error
	c.taskHandlerInit.Do(func() {
		c.taskHandler, err = c.initTaskHandler()
		if err != nil {
			c.initErrors["taskHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskHandler"]; exists {
		return nil, storedErr
	}
	return c.taskHandler, nil
}

// initTaskRepository creates the task repository based on the database driver.
func (c *Container) initTaskRepository() (tasksUseCase.TaskRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for task repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return tasksRepository.NewPostgreSQLTaskRepository(db), nil
	case "mysql":
		return tasksRepository.NewMySQLTaskRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTaskUseCase creates the task queue use case and registers every task
// handler. Handlers that enqueue follow-on tasks use the use case itself as
// their enqueuer, so the registry is populated after construction.
func (c *Container) initTaskUseCase() (tasksUseCase.TaskUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for task use case: %w", err)
	}

	taskRepo, err := c.TaskRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get task repository for task use case: %w", err)
	}

	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for task use case: %w", err)
	}

	appointmentRepo, err := c.AppointmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment repository for task use case: %w", err)
	}

	orgRepo, err := c.OrgRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get org repository for task use case: %w", err)
	}

	registry := tasksUseCase.NewRegistry()

	baseUseCase := tasksUseCase.NewTaskUseCase(
		txManager,
		taskRepo,
		eventRepo,
		registry,
		c.Clock(),
		c.Logger(),
		c.config.TaskBatchSize,
		c.config.TaskMaxRetries,
	)

	var useCase tasksUseCase.TaskUseCase = baseUseCase

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for task use case: %w", err)
		}
		useCase = tasksUseCase.NewTaskUseCaseWithMetrics(baseUseCase, businessMetrics)
	}

	logger := c.Logger()
	clk := c.Clock()

	registry.Register(tasksDomain.TypeScheduleReminders, handlers.NewScheduleRemindersHandler(
		appointmentRepo, useCase, eventRepo, clk, logger,
	))
	registry.Register(tasksDomain.TypeSendReminder, handlers.NewSendReminderHandler(
		appointmentRepo, orgRepo, c.Messenger(), eventRepo, clk, logger,
	))
	registry.Register(tasksDomain.TypeCalendarSync, handlers.NewCalendarSyncHandler(
		appointmentRepo, orgRepo, c.Calendar(), eventRepo, clk, logger,
	))
	c.followupHandler = handlers.NewSendFollowupHandler(
		orgRepo, c.Messenger(), useCase, eventRepo, clk, logger, nil,
	)
	registry.Register(tasksDomain.TypeSendFollowup, c.followupHandler)
	registry.Register(tasksDomain.TypeNotifyAdmin, handlers.NewNotifyAdminHandler(
		orgRepo, c.Messenger(), eventRepo, clk,
	))

	return useCase, nil
}

// initTaskHandler creates the task trigger HTTP handler with all its dependencies.
func (c *Container) initTaskHandler() (*tasksHTTP.TaskHandler, error) {
	useCase, err := c.TaskUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get task use case for task handler: %w", err)
	}

	return tasksHTTP.NewTaskHandler(useCase, c.config.TriggerSecret, c.Logger()), nil
}

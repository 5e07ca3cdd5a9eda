package app

import (
	"fmt"

	bookingHTTP "github.com/allisson/booking/internal/booking/http"
	bookingRepository "github.com/allisson/booking/internal/booking/repository"
	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
	eventHTTP "github.com/allisson/booking/internal/event/http"
	eventStorage "github.com/allisson/booking/internal/event/repository"
	"github.com/allisson/booking/internal/provider"
)

// HoldRepository returns the hold repository instance.
func (c *Container) HoldRepository() (bookingUseCase.HoldRepository, error) {
	var err error
	c.holdRepoInit.Do(func() {
		c.holdRepo, err = c.initHoldRepository()
		if err != nil {
			c.initErrors["holdRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["holdRepo"]; exists {
		return nil, storedErr
	}
	return c.holdRepo, nil
}

// AppointmentRepository returns the appointment repository instance.
func (c *Container) AppointmentRepository() (bookingUseCase.AppointmentRepository, error) {
	var err error
	c.appointmentRepoInit.Do(func() {
		c.appointmentRepo, err = c.initAppointmentRepository()
		if err != nil {
			c.initErrors["appointmentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["appointmentRepo"]; exists {
		return nil, storedErr
	}
	return c.appointmentRepo, nil
}

// PaymentRepository returns the payment repository instance.
func (c *Container) PaymentRepository() (bookingUseCase.PaymentRepository, error) {
	var err error
	c.paymentRepoInit.Do(func() {
		c.paymentRepo, err = c.initPaymentRepository()
		if err != nil {
			c.initErrors["paymentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["paymentRepo"]; exists {
		return nil, storedErr
	}
	return c.paymentRepo, nil
}

// EventRepository returns the audit event repository instance.
func (c *Container) EventRepository() (eventRepository, error) {
	var err error
	c.eventRepoInit.Do(func() {
		c.eventRepo, err = c.initEventRepository()
		if err != nil {
			c.initErrors["eventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepo"]; exists {
		return nil, storedErr
	}
	return c.eventRepo, nil
}

// Calendar returns the calendar provider instance.
func (c *Container) Calendar() provider.Calendar {
	c.calendarInit.Do(func() {
		c.calendar = provider.NewLogCalendar(c.Logger())
	})
	return c.calendar
}

// Payments returns the payments provider instance.
func (c *Container) Payments() provider.Payments {
	c.paymentsInit.Do(func() {
		c.payments = provider.NewLogPayments(c.Logger())
	})
	return c.payments
}

// Messenger returns the messenger provider instance.
func (c *Container) Messenger() provider.Messenger {
	c.messengerInit.Do(func() {
		c.messenger = provider.NewLogMessenger(c.Logger())
	})
	return c.messenger
}

// BookingUseCase returns the booking use case instance.
func (c *Container) BookingUseCase() (bookingUseCase.BookingUseCase, error) {
	var err error
	c.bookingUseCaseInit.Do(func() {
		c.bookingUseCase, err = c.initBookingUseCase()
		if err != nil {
			c.initErrors["bookingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bookingUseCase"]; exists {
		return nil, storedErr
	}
	return c.bookingUseCase, nil
}

// BookingHandler returns the booking HTTP handler instance.
func (c *Container) BookingHandler() (*bookingHTTP.BookingHandler, error) {
	var err error
	c.bookingHandlerInit.Do(func() {
		c.bookingHandler, err = c.initBookingHandler()
		if err != nil {
			c.initErrors["bookingHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bookingHandler"]; exists {
		return nil, storedErr
	}
	return c.bookingHandler, nil
}

// initHoldRepository creates the hold repository based on the database driver.
func (c *Container) initHoldRepository() (bookingUseCase.HoldRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for hold repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return bookingRepository.NewPostgreSQLHoldRepository(db), nil
	case "mysql":
		return bookingRepository.NewMySQLHoldRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAppointmentRepository creates the appointment repository based on the database driver.
func (c *Container) initAppointmentRepository() (bookingUseCase.AppointmentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for appointment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return bookingRepository.NewPostgreSQLAppointmentRepository(db), nil
	case "mysql":
		return bookingRepository.NewMySQLAppointmentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPaymentRepository creates the payment repository based on the database driver.
func (c *Container) initPaymentRepository() (bookingUseCase.PaymentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for payment repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return bookingRepository.NewPostgreSQLPaymentRepository(db), nil
	case "mysql":
		return bookingRepository.NewMySQLPaymentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventRepository creates the audit event repository based on the database driver.
func (c *Container) initEventRepository() (eventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return eventStorage.NewPostgreSQLEventRepository(db), nil
	case "mysql":
		return eventStorage.NewMySQLEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBookingUseCase creates the booking use case with all its dependencies.
func (c *Container) initBookingUseCase() (bookingUseCase.BookingUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for booking use case: %w", err)
	}

	holdRepo, err := c.HoldRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get hold repository for booking use case: %w", err)
	}

	appointmentRepo, err := c.AppointmentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment repository for booking use case: %w", err)
	}

	paymentRepo, err := c.PaymentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment repository for booking use case: %w", err)
	}

	orgRepo, err := c.OrgRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get org repository for booking use case: %w", err)
	}

	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for booking use case: %w", err)
	}

	taskQueue, err := c.TaskUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get task use case for booking use case: %w", err)
	}

	// initTaskUseCase has run by now, so the follow-up handler is available.
	baseUseCase := bookingUseCase.NewBookingUseCase(
		txManager,
		holdRepo,
		appointmentRepo,
		paymentRepo,
		orgRepo,
		eventRepo,
		taskQueue,
		c.followupHandler,
		c.Calendar(),
		c.Payments(),
		c.Clock(),
		c.Logger(),
		c.config.HoldTTL,
		c.config.SlotDaysAhead,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for booking use case: %w", err)
		}
		return bookingUseCase.NewBookingUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initBookingHandler creates the booking HTTP handler with all its dependencies.
func (c *Container) initBookingHandler() (*bookingHTTP.BookingHandler, error) {
	useCase, err := c.BookingUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get booking use case for booking handler: %w", err)
	}

	return bookingHTTP.NewBookingHandler(useCase, c.Logger()), nil
}

// EventHandler returns the event log HTTP handler instance.
func (c *Container) EventHandler() (*eventHTTP.EventHandler, error) {
	var err error
	c.eventHandlerInit.Do(func() {
		c.eventHandler, err = c.initEventHandler()
		if err != nil {
			c.initErrors["eventHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventHandler"]; exists {
		return nil, storedErr
	}
	return c.eventHandler, nil
}

// initEventHandler creates the event log HTTP handler with all its dependencies.
func (c *Container) initEventHandler() (*eventHTTP.EventHandler, error) {
	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for event handler: %w", err)
	}

	return eventHTTP.NewEventHandler(eventRepo, c.Logger()), nil
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	"github.com/allisson/booking/internal/booking/http/dto"
	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
	apperrors "github.com/allisson/booking/internal/errors"
)

// setupTestBookingHandler creates a test handler with mocked dependencies.
func setupTestBookingHandler(t *testing.T) (*BookingHandler, *mockBookingUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mockBookingUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewBookingHandler(mockUseCase, logger)

	return handler, mockUseCase
}

func TestBookingHandler_ListSlotsHandler(t *testing.T) {
	t.Run("Success_ReturnsSlots", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		orgID := uuid.Must(uuid.NewV7())
		start := time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)
		slots := []bookingDomain.Slot{
			{Start: start, End: start.Add(2 * time.Hour)},
			{Start: start.Add(150 * time.Minute), End: start.Add(270 * time.Minute)},
		}

		mockUseCase.On("ListSlots", mock.Anything, orgID).Return(slots, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/booking/slots?org_id="+orgID.String(), nil)

		handler.ListSlotsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListSlotsResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response.Slots, 2)
		assert.True(t, response.Slots[0].Start.Equal(start))
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_NoAvailabilityGivesEmptyList", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		orgID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ListSlots", mock.Anything, orgID).
			Return([]bookingDomain.Slot{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/booking/slots?org_id="+orgID.String(), nil)

		handler.ListSlotsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"slots":[]}`, w.Body.String())
	})

	t.Run("Error_InvalidOrgID", func(t *testing.T) {
		handler, _ := setupTestBookingHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/booking/slots?org_id=not-a-uuid", nil)

		handler.ListSlotsHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_OrgNotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		orgID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ListSlots", mock.Anything, orgID).
			Return(nil, apperrors.Wrap(apperrors.ErrNotFound, "org config not found")).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/booking/slots?org_id="+orgID.String(), nil)

		handler.ListSlotsHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingHandler_CreateHoldHandler(t *testing.T) {
	orgID := uuid.Must(uuid.NewV7())
	leadID := uuid.Must(uuid.NewV7())
	slotStart := time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)
	slotEnd := slotStart.Add(2 * time.Hour)

	validRequest := dto.CreateHoldRequest{
		OrgID:      orgID.String(),
		LeadID:     leadID.String(),
		SlotStart:  slotStart.Format(time.RFC3339),
		SlotEnd:    slotEnd.Format(time.RFC3339),
		PriceCents: 10000,
	}

	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		holdID := uuid.Must(uuid.NewV7())
		appointmentID := uuid.Must(uuid.NewV7())
		expiresAt := slotStart.Add(-time.Hour)

		output := &bookingUseCase.CreateHoldOutput{
			Hold:               &bookingDomain.Hold{ID: holdID, OrgID: orgID, ExpiresAt: expiresAt},
			Appointment:        &bookingDomain.Appointment{ID: appointmentID, Status: bookingDomain.AppointmentStatusPendingHold},
			DepositAmountCents: 3000,
		}

		mockUseCase.On("CreateHold", mock.Anything, validRequest.ToInput()).
			Return(output, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/booking/holds", validRequest)

		handler.CreateHoldHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.CreateHoldResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, holdID.String(), response.HoldID)
		assert.Equal(t, appointmentID.String(), response.AppointmentID)
		assert.Equal(t, int64(3000), response.DepositAmountCents)
		assert.True(t, response.ExpiresAt.Equal(expiresAt))
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestBookingHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/booking/holds", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))

		handler.CreateHoldHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "bad_request", response["error"])
	})

	t.Run("Error_ValidationFailed_BadTimestamp", func(t *testing.T) {
		handler, _ := setupTestBookingHandler(t)

		request := validRequest
		request.SlotStart = "tomorrow at noon"

		c, w := createTestContext(http.MethodPost, "/v1/booking/holds", request)

		handler.CreateHoldHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "validation_error", response["error"])
	})

	t.Run("Error_ValidationFailed_MissingLeadID", func(t *testing.T) {
		handler, _ := setupTestBookingHandler(t)

		request := validRequest
		request.LeadID = ""

		c, w := createTestContext(http.MethodPost, "/v1/booking/holds", request)

		handler.CreateHoldHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_SlotConflict", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		mockUseCase.On("CreateHold", mock.Anything, validRequest.ToInput()).
			Return(nil, apperrors.Wrap(apperrors.ErrConflict, "slot is held by another booking")).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/booking/holds", validRequest)

		handler.CreateHoldHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "conflict", response["error"])
	})
}

func TestBookingHandler_BeginPaymentHandler(t *testing.T) {
	orgID := uuid.Must(uuid.NewV7())
	holdID := uuid.Must(uuid.NewV7())
	appointmentID := uuid.Must(uuid.NewV7())

	validRequest := dto.BeginPaymentRequest{
		OrgID:         orgID.String(),
		HoldID:        holdID.String(),
		AppointmentID: appointmentID.String(),
		AmountCents:   3000,
		Currency:      "usd",
	}

	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		paymentID := uuid.Must(uuid.NewV7())
		output := &bookingUseCase.BeginPaymentOutput{
			Payment: &bookingDomain.Payment{
				ID:       paymentID,
				IntentID: "pi_123",
				Status:   bookingDomain.PaymentStatusInitiated,
			},
			ClientSecret: "pi_123_secret",
		}

		mockUseCase.On("BeginPayment", mock.Anything, validRequest.ToInput()).
			Return(output, nil).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/booking/payments", validRequest)

		handler.BeginPaymentHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.BeginPaymentResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, paymentID.String(), response.PaymentID)
		assert.Equal(t, "pi_123", response.IntentID)
		assert.Equal(t, "pi_123_secret", response.ClientSecret)
		assert.Equal(t, "initiated", response.Status)
	})

	t.Run("Error_ValidationFailed_ZeroAmount", func(t *testing.T) {
		handler, _ := setupTestBookingHandler(t)

		request := validRequest
		request.AmountCents = 0

		c, w := createTestContext(http.MethodPost, "/v1/booking/payments", request)

		handler.BeginPaymentHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_HoldExpired", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		mockUseCase.On("BeginPayment", mock.Anything, validRequest.ToInput()).
			Return(nil, apperrors.Wrap(apperrors.ErrExpired, "hold has expired")).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/booking/payments", validRequest)

		handler.BeginPaymentHandler(c)

		assert.Equal(t, http.StatusGone, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "expired", response["error"])
	})

	t.Run("Error_ProviderDown", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		mockUseCase.On("BeginPayment", mock.Anything, validRequest.ToInput()).
			Return(nil, apperrors.Wrap(apperrors.ErrProvider, "payment provider unavailable")).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/booking/payments", validRequest)

		handler.BeginPaymentHandler(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestBookingHandler_PaymentWebhookHandler(t *testing.T) {
	t.Run("Success_PaymentSucceeded", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		request := dto.PaymentWebhookRequest{Type: dto.WebhookPaymentSucceeded, IntentID: "pi_123"}

		mockUseCase.On("ConfirmPayment", mock.Anything, "pi_123").Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/webhooks/payment", request)

		handler.PaymentWebhookHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_PaymentFailed", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		request := dto.PaymentWebhookRequest{Type: dto.WebhookPaymentFailed, IntentID: "pi_456"}

		mockUseCase.On("FailPayment", mock.Anything, "pi_456").Return(nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/webhooks/payment", request)

		handler.PaymentWebhookHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_UnknownEventType", func(t *testing.T) {
		handler, _ := setupTestBookingHandler(t)

		request := dto.PaymentWebhookRequest{Type: "payment.refunded", IntentID: "pi_123"}

		c, w := createTestContext(http.MethodPost, "/v1/webhooks/payment", request)

		handler.PaymentWebhookHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UnknownIntent", func(t *testing.T) {
		handler, mockUseCase := setupTestBookingHandler(t)

		request := dto.PaymentWebhookRequest{Type: dto.WebhookPaymentSucceeded, IntentID: "pi_missing"}

		mockUseCase.On("ConfirmPayment", mock.Anything, "pi_missing").
			Return(apperrors.Wrap(apperrors.ErrNotFound, "payment not found")).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/webhooks/payment", request)

		handler.PaymentWebhookHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

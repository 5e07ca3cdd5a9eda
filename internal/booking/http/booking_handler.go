// Package http provides HTTP handlers for the booking API: availability,
// holds, payments and the payment provider webhook.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/booking/internal/booking/http/dto"
	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
	"github.com/allisson/booking/internal/httputil"
	customValidation "github.com/allisson/booking/internal/validation"
)

// BookingHandler handles HTTP requests for the booking flow.
type BookingHandler struct {
	bookingUseCase bookingUseCase.BookingUseCase
	logger         *slog.Logger
}

// NewBookingHandler creates a new booking handler with required dependencies.
func NewBookingHandler(useCase bookingUseCase.BookingUseCase, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: useCase,
		logger:         logger,
	}
}

// ListSlotsHandler returns the bookable slots for an org.
// GET /v1/booking/slots?org_id=<uuid>
func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("org_id must be a valid UUID"), h.logger)
		return
	}

	slots, err := h.bookingUseCase.ListSlots(c.Request.Context(), orgID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlotsToResponse(slots))
}

// CreateHoldHandler places a hold and its pending appointment on a slot.
// POST /v1/booking/holds - Returns 201 Created, 409 on slot conflict.
func (h *BookingHandler) CreateHoldHandler(c *gin.Context) {
	var req dto.CreateHoldRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.bookingUseCase.CreateHold(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapHoldToResponse(output))
}

// BeginPaymentHandler starts a deposit payment for a held slot.
// POST /v1/booking/payments - Returns 410 Gone when the hold has expired.
func (h *BookingHandler) BeginPaymentHandler(c *gin.Context) {
	var req dto.BeginPaymentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.bookingUseCase.BeginPayment(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapPaymentToResponse(output))
}

// PaymentWebhookHandler applies a payment provider notification.
// POST /v1/webhooks/payment
func (h *BookingHandler) PaymentWebhookHandler(c *gin.Context) {
	var req dto.PaymentWebhookRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	var err error
	switch req.Type {
	case dto.WebhookPaymentSucceeded:
		err = h.bookingUseCase.ConfirmPayment(c.Request.Context(), req.IntentID)
	case dto.WebhookPaymentFailed:
		err = h.bookingUseCase.FailPayment(c.Request.Context(), req.IntentID)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Success: true})
}

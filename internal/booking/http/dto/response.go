package dto

import (
	"time"

	bookingDomain "github.com/allisson/booking/internal/booking/domain"
	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
)

// SlotResponse represents one bookable slot in API responses.
type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ListSlotsResponse represents the availability of an org.
type ListSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// MapSlotsToResponse converts generated slots to a list response.
func MapSlotsToResponse(slots []bookingDomain.Slot) ListSlotsResponse {
	data := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		data = append(data, SlotResponse{Start: slot.Start, End: slot.End})
	}
	return ListSlotsResponse{Slots: data}
}

// CreateHoldResponse represents a placed hold in API responses.
type CreateHoldResponse struct {
	HoldID             string    `json:"hold_id"`
	AppointmentID      string    `json:"appointment_id"`
	ExpiresAt          time.Time `json:"expires_at"`
	DepositAmountCents int64     `json:"deposit_amount_cents"`
}

// MapHoldToResponse converts a hold placement result to a response.
func MapHoldToResponse(output *bookingUseCase.CreateHoldOutput) CreateHoldResponse {
	return CreateHoldResponse{
		HoldID:             output.Hold.ID.String(),
		AppointmentID:      output.Appointment.ID.String(),
		ExpiresAt:          output.Hold.ExpiresAt,
		DepositAmountCents: output.DepositAmountCents,
	}
}

// BeginPaymentResponse represents a started payment in API responses.
type BeginPaymentResponse struct {
	PaymentID    string `json:"payment_id"`
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// MapPaymentToResponse converts a payment start result to a response.
func MapPaymentToResponse(output *bookingUseCase.BeginPaymentOutput) BeginPaymentResponse {
	return BeginPaymentResponse{
		PaymentID:    output.Payment.ID.String(),
		IntentID:     output.Payment.IntentID,
		ClientSecret: output.ClientSecret,
		Status:       string(output.Payment.Status),
	}
}

// WebhookResponse acknowledges a processed webhook delivery.
type WebhookResponse struct {
	Success bool `json:"success"`
}

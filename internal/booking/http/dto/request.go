// Package dto provides data transfer objects for the booking HTTP API.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	bookingUseCase "github.com/allisson/booking/internal/booking/usecase"
	customValidation "github.com/allisson/booking/internal/validation"
)

// UUIDString validates that a string is a well-formed UUID.
var UUIDString = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// Webhook event types accepted by the payment webhook endpoint.
const (
	WebhookPaymentSucceeded = "payment.succeeded"
	WebhookPaymentFailed    = "payment.failed"
)

// CreateHoldRequest contains the parameters for placing a hold on a slot.
type CreateHoldRequest struct {
	OrgID      string `json:"org_id"`
	LeadID     string `json:"lead_id"`
	SlotStart  string `json:"slot_start"`
	SlotEnd    string `json:"slot_end"`
	PriceCents int64  `json:"price_cents"`
}

// Validate checks the hold request fields.
func (r CreateHoldRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrgID, validation.Required, UUIDString),
		validation.Field(&r.LeadID, validation.Required, UUIDString),
		validation.Field(&r.SlotStart, validation.Required, customValidation.RFC3339Time),
		validation.Field(&r.SlotEnd, validation.Required, customValidation.RFC3339Time),
		validation.Field(&r.PriceCents, validation.Min(0)),
	)
}

// ToInput converts a validated request into use case input. Timestamps are
// normalized to UTC.
func (r CreateHoldRequest) ToInput() bookingUseCase.CreateHoldInput {
	orgID, _ := uuid.Parse(r.OrgID)
	leadID, _ := uuid.Parse(r.LeadID)
	slotStart, _ := time.Parse(time.RFC3339, r.SlotStart)
	slotEnd, _ := time.Parse(time.RFC3339, r.SlotEnd)

	return bookingUseCase.CreateHoldInput{
		OrgID:      orgID,
		LeadID:     leadID,
		SlotStart:  slotStart.UTC(),
		SlotEnd:    slotEnd.UTC(),
		PriceCents: r.PriceCents,
	}
}

// BeginPaymentRequest contains the parameters for starting a deposit payment.
type BeginPaymentRequest struct {
	OrgID         string `json:"org_id"`
	HoldID        string `json:"hold_id"`
	AppointmentID string `json:"appointment_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
}

// Validate checks the payment request fields.
func (r BeginPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrgID, validation.Required, UUIDString),
		validation.Field(&r.HoldID, validation.Required, UUIDString),
		validation.Field(&r.AppointmentID, validation.Required, UUIDString),
		validation.Field(&r.AmountCents, validation.Required, validation.Min(1)),
		validation.Field(&r.Currency, validation.Length(3, 3)),
	)
}

// ToInput converts a validated request into use case input.
func (r BeginPaymentRequest) ToInput() bookingUseCase.BeginPaymentInput {
	orgID, _ := uuid.Parse(r.OrgID)
	holdID, _ := uuid.Parse(r.HoldID)
	appointmentID, _ := uuid.Parse(r.AppointmentID)

	return bookingUseCase.BeginPaymentInput{
		OrgID:         orgID,
		HoldID:        holdID,
		AppointmentID: appointmentID,
		AmountCents:   r.AmountCents,
		Currency:      r.Currency,
	}
}

// PaymentWebhookRequest is the provider notification delivered to the
// payment webhook endpoint.
type PaymentWebhookRequest struct {
	Type     string `json:"type"`
	IntentID string `json:"intent_id"`
}

// Validate checks the webhook payload fields.
func (r PaymentWebhookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required,
			validation.In(WebhookPaymentSucceeded, WebhookPaymentFailed)),
		validation.Field(&r.IntentID, validation.Required, customValidation.NotBlank),
	)
}

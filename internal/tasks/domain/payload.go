package domain

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/booking/internal/errors"
)

// Payload is the decoded, validated body of a task. Each task type has its
// own concrete payload shape; decoding happens at dequeue time so malformed
// payloads fail fast instead of deep inside a handler.
type Payload interface {
	Validate() error
}

// ReminderAudience selects who a send_reminder task addresses.
type ReminderAudience string

const (
	ReminderAudienceCustomer ReminderAudience = "customer"
	ReminderAudienceInternal ReminderAudience = "internal"
)

// ScheduleRemindersPayload is the body of a schedule_reminders task.
type ScheduleRemindersPayload struct {
	AppointmentID string `json:"appointment_id"`
}

// Validate checks the schedule_reminders payload.
func (p ScheduleRemindersPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.AppointmentID, validation.Required, validation.By(isUUIDString)),
	)
}

// SendReminderPayload is the body of a send_reminder task.
type SendReminderPayload struct {
	AppointmentID string           `json:"appointment_id"`
	Audience      ReminderAudience `json:"audience"`
}

// Validate checks the send_reminder payload.
func (p SendReminderPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.AppointmentID, validation.Required, validation.By(isUUIDString)),
		validation.Field(&p.Audience,
			validation.Required,
			validation.In(ReminderAudienceCustomer, ReminderAudienceInternal),
		),
	)
}

// CalendarSyncPayload is the body of a calendar_sync task.
type CalendarSyncPayload struct {
	AppointmentID string `json:"appointment_id"`
}

// Validate checks the calendar_sync payload.
func (p CalendarSyncPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.AppointmentID, validation.Required, validation.By(isUUIDString)),
	)
}

// SendFollowupPayload is the body of a send_followup task.
type SendFollowupPayload struct {
	LeadID  string `json:"lead_id"`
	Step    int    `json:"step"`
	Channel string `json:"channel"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// Validate checks the send_followup payload.
func (p SendFollowupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.LeadID, validation.Required, validation.By(isUUIDString)),
		validation.Field(&p.Step, validation.Min(1)),
		validation.Field(&p.Channel, validation.Required, validation.In("sms", "email")),
		validation.Field(&p.Body, validation.Required),
	)
}

// NotifyAdminPayload is the body of a notify_admin task.
type NotifyAdminPayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate checks the notify_admin payload.
func (p NotifyAdminPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Subject, validation.Required),
		validation.Field(&p.Body, validation.Required),
	)
}

// DecodePayload parses and validates a task payload according to its type.
// Unknown types return ErrConfiguration (terminal, never retried); malformed
// or invalid payloads return ErrInvalidInput (also terminal).
func DecodePayload(taskType, raw string) (Payload, error) {
	switch taskType {
	case TypeScheduleReminders:
		return decodeInto[ScheduleRemindersPayload](raw)
	case TypeSendReminder:
		return decodeInto[SendReminderPayload](raw)
	case TypeCalendarSync:
		return decodeInto[CalendarSyncPayload](raw)
	case TypeSendFollowup:
		return decodeInto[SendFollowupPayload](raw)
	case TypeNotifyAdmin:
		return decodeInto[NotifyAdminPayload](raw)
	default:
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "no payload registered for task type "+taskType)
	}
}

// EncodePayload serializes a payload for storage after validating it.
func EncodePayload(p Payload) (string, error) {
	if err := p.Validate(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return string(data), nil
}

// decodeInto unmarshals and validates a concrete payload type.
func decodeInto[T Payload](raw string) (Payload, error) {
	var p T
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed task payload: "+err.Error())
	}
	if err := p.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invalid task payload: "+err.Error())
	}
	return p, nil
}

// isUUIDString validates that a string is a well-formed UUID.
func isUUIDString(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil // Required covers emptiness
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

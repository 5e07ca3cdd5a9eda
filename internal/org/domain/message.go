package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageChannel is the delivery channel of an outbound message.
type MessageChannel string

const (
	MessageChannelSMS   MessageChannel = "sms"
	MessageChannelEmail MessageChannel = "email"
)

// Message records an outbound SMS or email sent on behalf of an org, for
// auditing what was delivered to whom.
type Message struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	LeadID    uuid.UUID
	Channel   MessageChannel
	Recipient string
	// Subject is empty for SMS.
	Subject   string
	Body      string
	CreatedAt time.Time
}

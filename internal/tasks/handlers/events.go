package handlers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/clock"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
)

// appendEvent appends an audit event on behalf of a handler.
func appendEvent(
	ctx context.Context,
	eventRepo EventRepository,
	clk clock.Clock,
	orgID uuid.UUID,
	leadID *uuid.UUID,
	eventType string,
	metadata map[string]any,
) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event metadata")
	}
	return eventRepo.Create(ctx, &eventDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		OrgID:     orgID,
		LeadID:    leadID,
		Type:      eventType,
		Metadata:  string(data),
		CreatedAt: clk.Now(),
	})
}

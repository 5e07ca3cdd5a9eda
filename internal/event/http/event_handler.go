// Package http exposes the event log read API. Async task failures surface
// only here, so operators page through an org's events to diagnose them.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	eventDomain "github.com/allisson/booking/internal/event/domain"
	"github.com/allisson/booking/internal/httputil"
)

// EventLister reads pages of an org's event log, newest first.
type EventLister interface {
	ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*eventDomain.Event, error)
}

// EventResponse is the wire representation of one event log record.
type EventResponse struct {
	ID        string          `json:"id"`
	OrgID     string          `json:"org_id"`
	LeadID    *string         `json:"lead_id,omitempty"`
	Type      string          `json:"type"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListEventsResponse is one page of an org's event log.
type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// EventHandler handles HTTP requests for reading the event log.
type EventHandler struct {
	events EventLister
	logger *slog.Logger
}

// NewEventHandler creates a new event log handler.
func NewEventHandler(events EventLister, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		logger: logger,
	}
}

// ListHandler returns one page of an org's events, newest first.
// GET /v1/events?org_id=<uuid>&offset=<n>&limit=<n>
func (h *EventHandler) ListHandler(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("org_id must be a valid UUID"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	events, err := h.events.ListByOrg(c.Request.Context(), orgID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, mapEventsToResponse(events, offset, limit))
}

// mapEventsToResponse converts domain events to the wire representation.
func mapEventsToResponse(events []*eventDomain.Event, offset, limit int) ListEventsResponse {
	response := ListEventsResponse{
		Events: make([]EventResponse, 0, len(events)),
		Offset: offset,
		Limit:  limit,
	}
	for _, event := range events {
		item := EventResponse{
			ID:        event.ID.String(),
			OrgID:     event.OrgID.String(),
			Type:      event.Type,
			Metadata:  json.RawMessage(event.Metadata),
			CreatedAt: event.CreatedAt,
		}
		if event.LeadID != nil {
			leadID := event.LeadID.String()
			item.LeadID = &leadID
		}
		response.Events = append(response.Events, item)
	}
	return response
}

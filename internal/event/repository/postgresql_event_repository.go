// Package repository implements event log persistence. The log is
// append-only: events are inserted and listed, never updated or deleted.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
)

// PostgreSQLEventRepository implements Event persistence for PostgreSQL databases.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventRepository creates a new PostgreSQL Event repository instance.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}

// Create appends a new event.
func (p *PostgreSQLEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO events (id, org_id, lead_id, type, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.OrgID,
		event.LeadID,
		event.Type,
		event.Metadata,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create event")
	}
	return nil
}

// ListByOrg returns the most recent events for an org, newest first.
func (p *PostgreSQLEventRepository) ListByOrg(
	ctx context.Context,
	orgID uuid.UUID,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, lead_id, type, metadata, created_at
			  FROM events
			  WHERE org_id = $1
			  ORDER BY created_at DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, orgID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*eventDomain.Event
	for rows.Next() {
		var event eventDomain.Event
		var leadID uuid.NullUUID
		err := rows.Scan(
			&event.ID,
			&event.OrgID,
			&leadID,
			&event.Type,
			&event.Metadata,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan event")
		}
		if leadID.Valid {
			id := leadID.UUID
			event.LeadID = &id
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}

	return events, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	eventDomain "github.com/allisson/booking/internal/event/domain"
)

// MySQLEventRepository implements Event persistence for MySQL databases.
type MySQLEventRepository struct {
	db *sql.DB
}

// NewMySQLEventRepository creates a new MySQL Event repository instance.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}

// Create appends a new event.
func (m *MySQLEventRepository) Create(ctx context.Context, event *eventDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO events (id, org_id, lead_id, type, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}
	orgID, err := event.OrgID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org id")
	}
	var leadID []byte
	if event.LeadID != nil {
		leadID, err = event.LeadID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal lead id")
		}
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		orgID,
		leadID,
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
func (m *MySQLEventRepository) ListByOrg(
	ctx context.Context,
	orgID uuid.UUID,
	offset, limit int,
) ([]*eventDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, lead_id, type, metadata, created_at
			  FROM events
			  WHERE org_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	rows, err := querier.QueryContext(ctx, query, rawOrgID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}
	defer rows.Close() //nolint:errcheck

	var events []*eventDomain.Event
	for rows.Next() {
		var event eventDomain.Event
		var rawID, rawOrg, rawLead []byte
		err := rows.Scan(
			&rawID,
			&rawOrg,
			&rawLead,
			&event.Type,
			&event.Metadata,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan event")
		}
		if event.ID, err = uuid.FromBytes(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal event id")
		}
		if event.OrgID, err = uuid.FromBytes(rawOrg); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal org id")
		}
		if rawLead != nil {
			leadID, err := uuid.FromBytes(rawLead)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal lead id")
			}
			event.LeadID = &leadID
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list events")
	}

	return events, nil
}

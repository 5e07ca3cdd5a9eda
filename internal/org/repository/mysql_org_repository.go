package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	orgDomain "github.com/allisson/booking/internal/org/domain"
)

// MySQLOrgRepository implements org persistence for MySQL databases.
type MySQLOrgRepository struct {
	db *sql.DB
}

// NewMySQLOrgRepository creates a new MySQL org repository instance.
func NewMySQLOrgRepository(db *sql.DB) *MySQLOrgRepository {
	return &MySQLOrgRepository{db: db}
}

// GetOrg retrieves an org by its id.
func (m *MySQLOrgRepository) GetOrg(ctx context.Context, orgID uuid.UUID) (*orgDomain.Org, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, slug, timezone, created_at
			  FROM orgs
			  WHERE id = ?`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	var org orgDomain.Org
	var rawID []byte
	err = querier.QueryRowContext(ctx, query, rawOrgID).Scan(
		&rawID,
		&org.Name,
		&org.Slug,
		&org.Timezone,
		&org.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get org")
	}
	if org.ID, err = uuid.FromBytes(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal org id")
	}

	return &org, nil
}

// GetOrgBySlug retrieves an org by its public slug.
func (m *MySQLOrgRepository) GetOrgBySlug(ctx context.Context, slug string) (*orgDomain.Org, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, slug, timezone, created_at
			  FROM orgs
			  WHERE slug = ?`

	var org orgDomain.Org
	var rawID []byte
	err := querier.QueryRowContext(ctx, query, slug).Scan(
		&rawID,
		&org.Name,
		&org.Slug,
		&org.Timezone,
		&org.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get org by slug")
	}
	if org.ID, err = uuid.FromBytes(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal org id")
	}

	return &org, nil
}

// GetConfig retrieves the booking configuration of an org.
func (m *MySQLOrgRepository) GetConfig(ctx context.Context, orgID uuid.UUID) (*orgDomain.Config, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, slot_duration_minutes, lead_time_hours, buffer_minutes, max_per_day,
			         work_start_hour, work_end_hour, deposit_percent, notification_email, followup_enabled,
			         created_at, updated_at
			  FROM org_configs
			  WHERE org_id = ?`

	rawOrgID, err := orgID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal org id")
	}

	var config orgDomain.Config
	var rawID, rawOrg []byte
	err = querier.QueryRowContext(ctx, query, rawOrgID).Scan(
		&rawID,
		&rawOrg,
		&config.SlotDurationMinutes,
		&config.LeadTimeHours,
		&config.BufferMinutes,
		&config.MaxPerDay,
		&config.WorkStartHour,
		&config.WorkEndHour,
		&config.DepositPercent,
		&config.NotificationEmail,
		&config.FollowupEnabled,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get org config")
	}
	if config.ID, err = uuid.FromBytes(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal config id")
	}
	if config.OrgID, err = uuid.FromBytes(rawOrg); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal org id")
	}

	return &config, nil
}

// GetLead retrieves a lead by its id.
func (m *MySQLOrgRepository) GetLead(ctx context.Context, leadID uuid.UUID) (*orgDomain.Lead, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, name, email, phone, status, created_at
			  FROM leads
			  WHERE id = ?`

	rawLeadID, err := leadID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal lead id")
	}

	var lead orgDomain.Lead
	var rawID, rawOrg []byte
	err = querier.QueryRowContext(ctx, query, rawLeadID).Scan(
		&rawID,
		&rawOrg,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get lead")
	}
	if lead.ID, err = uuid.FromBytes(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal lead id")
	}
	if lead.OrgID, err = uuid.FromBytes(rawOrg); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal org id")
	}

	return &lead, nil
}

// UpdateLeadStatus moves a lead to a new funnel status.
func (m *MySQLOrgRepository) UpdateLeadStatus(
	ctx context.Context,
	leadID uuid.UUID,
	status orgDomain.LeadStatus,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE leads
			  SET status = ?
			  WHERE id = ?`

	rawLeadID, err := leadID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal lead id")
	}

	result, err := querier.ExecContext(ctx, query, status, rawLeadID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update lead status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// CreateMessage records an outbound message.
func (m *MySQLOrgRepository) CreateMessage(ctx context.Context, message *orgDomain.Message) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO messages (id, org_id, lead_id, channel, recipient, subject, body, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := message.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal message id")
	}
	orgID, err := message.OrgID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org id")
	}
	leadID, err := message.LeadID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal lead id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		orgID,
		leadID,
		message.Channel,
		message.Recipient,
		message.Subject,
		message.Body,
		message.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create message")
	}
	return nil
}

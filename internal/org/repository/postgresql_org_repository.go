// Package repository implements org-level persistence: orgs, their booking
// configuration, leads and the outbound message log.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	orgDomain "github.com/allisson/booking/internal/org/domain"
)

// PostgreSQLOrgRepository implements org persistence for PostgreSQL databases.
type PostgreSQLOrgRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrgRepository creates a new PostgreSQL org repository instance.
func NewPostgreSQLOrgRepository(db *sql.DB) *PostgreSQLOrgRepository {
	return &PostgreSQLOrgRepository{db: db}
}

// GetOrg retrieves an org by its id.
func (p *PostgreSQLOrgRepository) GetOrg(ctx context.Context, orgID uuid.UUID) (*orgDomain.Org, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, slug, timezone, created_at
			  FROM orgs
			  WHERE id = $1`

	var org orgDomain.Org
	err := querier.QueryRowContext(ctx, query, orgID).Scan(
		&org.ID,
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

	return &org, nil
}

// GetOrgBySlug retrieves an org by its public slug.
func (p *PostgreSQLOrgRepository) GetOrgBySlug(ctx context.Context, slug string) (*orgDomain.Org, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, slug, timezone, created_at
			  FROM orgs
			  WHERE slug = $1`

	var org orgDomain.Org
	err := querier.QueryRowContext(ctx, query, slug).Scan(
		&org.ID,
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

	return &org, nil
}

// GetConfig retrieves the booking configuration of an org.
func (p *PostgreSQLOrgRepository) GetConfig(ctx context.Context, orgID uuid.UUID) (*orgDomain.Config, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, slot_duration_minutes, lead_time_hours, buffer_minutes, max_per_day,
			         work_start_hour, work_end_hour, deposit_percent, notification_email, followup_enabled,
			         created_at, updated_at
			  FROM org_configs
			  WHERE org_id = $1`

	var config orgDomain.Config
	err := querier.QueryRowContext(ctx, query, orgID).Scan(
		&config.ID,
		&config.OrgID,
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

	return &config, nil
}

// GetLead retrieves a lead by its id.
func (p *PostgreSQLOrgRepository) GetLead(ctx context.Context, leadID uuid.UUID) (*orgDomain.Lead, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, name, email, phone, status, created_at
			  FROM leads
			  WHERE id = $1`

	var lead orgDomain.Lead
	err := querier.QueryRowContext(ctx, query, leadID).Scan(
		&lead.ID,
		&lead.OrgID,
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

	return &lead, nil
}

// UpdateLeadStatus moves a lead to a new funnel status.
func (p *PostgreSQLOrgRepository) UpdateLeadStatus(
	ctx context.Context,
	leadID uuid.UUID,
	status orgDomain.LeadStatus,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE leads
			  SET status = $1
			  WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, status, leadID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update lead status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// CreateMessage records an outbound message.
func (p *PostgreSQLOrgRepository) CreateMessage(ctx context.Context, message *orgDomain.Message) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO messages (id, org_id, lead_id, channel, recipient, subject, body, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		message.ID,
		message.OrgID,
		message.LeadID,
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

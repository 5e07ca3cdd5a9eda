// Package repository implements task queue persistence. Due-task selection
// uses FOR UPDATE SKIP LOCKED so overlapping runner invocations never pick
// up the same task twice.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/booking/internal/database"
	apperrors "github.com/allisson/booking/internal/errors"
	tasksDomain "github.com/allisson/booking/internal/tasks/domain"
)

// PostgreSQLTaskRepository implements Task persistence for PostgreSQL databases.
type PostgreSQLTaskRepository struct {
	db *sql.DB
}

// NewPostgreSQLTaskRepository creates a new PostgreSQL Task repository instance.
func NewPostgreSQLTaskRepository(db *sql.DB) *PostgreSQLTaskRepository {
	return &PostgreSQLTaskRepository{db: db}
}

// Create inserts a new task.
func (p *PostgreSQLTaskRepository) Create(ctx context.Context, task *tasksDomain.Task) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tasks (id, org_id, lead_id, type, payload, status, run_at, retry_count, last_error, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		task.ID,
		task.OrgID,
		task.LeadID,
		task.Type,
		task.Payload,
		task.Status,
		task.RunAt,
		task.RetryCount,
		task.LastError,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create task")
	}
	return nil
}

// GetDueTasks returns queued tasks due at or before now, oldest first,
// bounded by limit. Rows are locked with FOR UPDATE SKIP LOCKED so
// concurrent runner invocations skip each other's claims.
func (p *PostgreSQLTaskRepository) GetDueTasks(
	ctx context.Context,
	limit int,
	now time.Time,
) ([]*tasksDomain.Task, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, org_id, lead_id, type, payload, status, run_at, retry_count, last_error, created_at, updated_at
			  FROM tasks
			  WHERE status = $1 AND run_at <= $2
			  ORDER BY created_at ASC
			  LIMIT $3
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, tasksDomain.TaskStatusQueued, now, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get due tasks")
	}
	defer rows.Close() //nolint:errcheck

	var tasks []*tasksDomain.Task
	for rows.Next() {
		var task tasksDomain.Task
		var leadID uuid.NullUUID
		err := rows.Scan(
			&task.ID,
			&task.OrgID,
			&leadID,
			&task.Type,
			&task.Payload,
			&task.Status,
			&task.RunAt,
			&task.RetryCount,
			&task.LastError,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan task")
		}
		if leadID.Valid {
			id := leadID.UUID
			task.LeadID = &id
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to get due tasks")
	}

	return tasks, nil
}

// Update persists the runner-owned fields of a task.
func (p *PostgreSQLTaskRepository) Update(ctx context.Context, task *tasksDomain.Task) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tasks
			  SET status = $1, run_at = $2, retry_count = $3, last_error = $4, updated_at = NOW()
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		task.Status,
		task.RunAt,
		task.RetryCount,
		task.LastError,
		task.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update task")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

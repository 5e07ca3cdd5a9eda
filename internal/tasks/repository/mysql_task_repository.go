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

// MySQLTaskRepository implements Task persistence for MySQL databases.
type MySQLTaskRepository struct {
	db *sql.DB
}

// NewMySQLTaskRepository creates a new MySQL Task repository instance.
func NewMySQLTaskRepository(db *sql.DB) *MySQLTaskRepository {
	return &MySQLTaskRepository{db: db}
}

// Create inserts a new task.
func (m *MySQLTaskRepository) Create(ctx context.Context, task *tasksDomain.Task) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tasks (id, org_id, lead_id, type, payload, status, run_at, retry_count, last_error, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := task.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal task id")
	}
	orgID, err := task.OrgID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal org id")
	}
	var leadID []byte
	if task.LeadID != nil {
		leadID, err = task.LeadID.MarshalBinary()
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
func (m *MySQLTaskRepository) GetDueTasks(
	ctx context.Context,
	limit int,
	now time.Time,
) ([]*tasksDomain.Task, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, org_id, lead_id, type, payload, status, run_at, retry_count, last_error, created_at, updated_at
			  FROM tasks
			  WHERE status = ? AND run_at <= ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, tasksDomain.TaskStatusQueued, now, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get due tasks")
	}
	defer rows.Close() //nolint:errcheck

	var tasks []*tasksDomain.Task
	for rows.Next() {
		var task tasksDomain.Task
		var rawID, rawOrgID, rawLeadID []byte
		err := rows.Scan(
			&rawID,
			&rawOrgID,
			&rawLeadID,
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
		if task.ID, err = uuid.FromBytes(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal task id")
		}
		if task.OrgID, err = uuid.FromBytes(rawOrgID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal org id")
		}
		if rawLeadID != nil {
			leadID, err := uuid.FromBytes(rawLeadID)
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal lead id")
			}
			task.LeadID = &leadID
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to get due tasks")
	}

	return tasks, nil
}

// Update persists the runner-owned fields of a task.
func (m *MySQLTaskRepository) Update(ctx context.Context, task *tasksDomain.Task) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE tasks
			  SET status = ?, run_at = ?, retry_count = ?, last_error = ?, updated_at = NOW()
			  WHERE id = ?`

	id, err := task.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal task id")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		task.Status,
		task.RunAt,
		task.RetryCount,
		task.LastError,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update task")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

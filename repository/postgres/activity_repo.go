package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Insert(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO activities (id, task_id, user_id, action, field, old_value, new_value, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
	RETURNING created_at
	`

	return r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.TaskID,
		activity.UserID,
		activity.Action,
		activity.Field,
		activity.OldValue,
		activity.NewValue,
		activity.Description,
		nullTime(activity.CreatedAt),
	).Scan(&activity.CreatedAt)
}

func (r *activityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	where, args := buildActivityWhere(filter)
	query := fmt.Sprintf(`
	SELECT a.id, a.task_id, a.user_id, a.action, a.field, a.old_value, a.new_value, a.description, a.created_at
	FROM activities a
	%s
	ORDER BY a.created_at DESC
	LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, clampLimit(filter.Limit), maxInt(filter.Offset, 0))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.UserID, &a.Action,
			&a.Field, &a.OldValue, &a.NewValue, &a.Description, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

func (r *activityRepository) Count(ctx context.Context, filter repository.ActivityFilter) (int, error) {
	where, args := buildActivityWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM activities a %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *activityRepository) DeleteByTask(ctx context.Context, taskID string) error {
	const query = `DELETE FROM activities WHERE task_id = $1`
	_, err := r.pool.Exec(ctx, query, taskID)
	return err
}

func buildActivityWhere(filter repository.ActivityFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.TaskID != "" {
		args = append(args, filter.TaskID)
		clauses = append(clauses, fmt.Sprintf("a.task_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		clauses = append(clauses, fmt.Sprintf(
			"a.task_id IN (SELECT id FROM tasks WHERE user_id = $%d)", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

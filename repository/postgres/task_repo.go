package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

const taskColumns = `id, user_id, title, description, status, priority, due_date, category,
	tags, recurrence, dependencies, completed_at, deleted, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	where, args := buildTaskWhere(filter)
	query := fmt.Sprintf(
		`SELECT %s FROM tasks %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderClause(filter), len(args)+1, len(args)+2,
	)
	args = append(args, clampLimit(filter.Limit), maxInt(filter.Offset, 0))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	where, args := buildTaskWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tasks %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Dependencies == nil {
		task.Dependencies = []string{}
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, category,
		tags, recurrence, dependencies, completed_at, deleted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullTimePtr(task.DueDate),
		task.Category,
		task.Tags,
		marshalRecurrence(task.Recurrence),
		task.Dependencies,
		nullTimePtr(task.CompletedAt),
		task.Deleted,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		category = $7,
		tags = $8,
		recurrence = $9,
		completed_at = $10,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullTimePtr(task.DueDate),
		task.Category,
		task.Tags,
		marshalRecurrence(task.Recurrence),
		nullTimePtr(task.CompletedAt),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) SetDependencies(ctx context.Context, id string, dependencies []string) error {
	const query = `
	UPDATE tasks
	SET dependencies = $2, updated_at = NOW()
	WHERE id = $1
	`
	if dependencies == nil {
		dependencies = []string{}
	}
	tag, err := r.pool.Exec(ctx, query, id, dependencies)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	const query = `
	UPDATE tasks
	SET deleted = $2, updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, deleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) HardDelete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ListDependents(ctx context.Context, id string) ([]domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE $1 = ANY(dependencies) AND deleted = FALSE`, taskColumns)
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func buildTaskWhere(filter repository.TaskFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted = FALSE")
	}
	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		add("priority = $%d", filter.Priority)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')",
			len(args), len(args),
		))
	}
	if filter.DueAfter != nil {
		add("due_date >= $%d", *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		add("due_date < $%d", *filter.DueBefore)
	}
	if filter.Overdue {
		clauses = append(clauses, "due_date < NOW()", fmt.Sprintf("status != '%s'", domain.StatusCompleted))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(filter repository.TaskFilter) string {
	column := filter.SortBy
	switch column {
	case repository.SortCreatedAt, repository.SortUpdatedAt, repository.SortDueDate,
		repository.SortPriority, repository.SortTitle:
	default:
		return "created_at DESC"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	return column + " " + direction
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		due        *time.Time
		completed  *time.Time
		recurrence []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&due,
		&task.Category,
		&task.Tags,
		&recurrence,
		&task.Dependencies,
		&completed,
		&task.Deleted,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	task.CompletedAt = completed
	task.Recurrence = unmarshalRecurrence(recurrence)
	if task.Dependencies == nil {
		task.Dependencies = []string{}
	}

	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

func maxInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

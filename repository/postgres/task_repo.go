package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id::text, owner_id::text, title, description, status, due_date, created_at, updated_at`

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if !validID(filter.Owner) {
		return []domain.Task{}, nil
	}

	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE owner_id = $1
	  AND ($2 = '' OR status = $2)
	` + orderClause(filter.SortBy, filter.Order)

	rows, err := r.pool.Query(ctx, query, filter.Owner, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || !validID(task.Owner) {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, owner_id, title, description, status, due_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		task.Owner,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate.UTC(),
	)
	created, err := scanTask(row)
	if err != nil {
		return nil, translateError(err)
	}
	return created, nil
}

// Update matches on id and owner_id in one statement; unset patch fields keep
// their stored value through COALESCE.
func (r *taskRepository) Update(ctx context.Context, id, owner string, patch domain.TaskPatch) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	if !validID(owner) {
		return nil, domain.ErrTaskNotFound
	}

	const query = `
	UPDATE tasks
	SET title = COALESCE($3, title),
		description = COALESCE($4, description),
		status = COALESCE($5, status),
		due_date = COALESCE($6, due_date),
		updated_at = NOW()
	WHERE id = $1 AND owner_id = $2
	RETURNING ` + taskColumns

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	row := r.pool.QueryRow(ctx, query,
		id,
		owner,
		patch.Title,
		patch.Description,
		status,
		patch.DueDate,
	)
	updated, err := scanTask(row)
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id, owner string) error {
	if !validID(id) {
		return domain.ErrInvalidID
	}
	if !validID(owner) {
		return domain.ErrTaskNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task   domain.Task
		status string
	)

	if err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Title,
		&task.Description,
		&status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.DueDate = task.DueDate.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

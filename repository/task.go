package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

// TaskFilter selects one owner's tasks. Date ranges are applied by the caller.
type TaskFilter struct {
	Owner  string
	Status domain.TaskStatus
	SortBy domain.SortField
	Order  domain.SortOrder
}

// TaskRepository is the task store. Update and Delete match on id and owner in a
// single store operation; a task owned by someone else reports ErrTaskNotFound.
type TaskRepository interface {
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id, owner string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id, owner string) error
}

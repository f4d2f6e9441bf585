// Package memory provides process-local implementations of the repository
// interfaces for development runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
)

// Store holds users and tasks behind a single lock so owner-scoped mutations are atomic.
type Store struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
	tasks   map[string]domain.Task
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]domain.Task),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// EnsureConnected is a no-op; it lets Store stand in for a networked backend.
func (s *Store) EnsureConnected(context.Context) error { return nil }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Users returns the credential-store view of s.
func (s *Store) Users() repository.UserRepository { return (*userRepository)(s) }

// Tasks returns the task-store view of s.
func (s *Store) Tasks() repository.TaskRepository { return (*taskRepository)(s) }

type userRepository Store

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, taken := r.byEmail[email]; taken {
		return nil, domain.ErrDuplicate
	}

	created := *user
	created.ID = uuid.NewString()
	created.Email = email
	created.CreatedAt = r.now()
	created.UpdatedAt = created.CreatedAt

	r.users[created.ID] = created
	r.byEmail[email] = created.ID
	return &created, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	email := domain.NormalizeEmail(user.Email)
	if id, taken := r.byEmail[email]; taken && id != user.ID {
		return domain.ErrDuplicate
	}

	delete(r.byEmail, current.Email)
	current.Name = user.Name
	current.Email = email
	current.PasswordHash = user.PasswordHash
	current.UpdatedAt = r.now()

	r.users[current.ID] = current
	r.byEmail[email] = current.ID
	*user = current
	return nil
}

type taskRepository Store

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	tasks := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if task.Owner != filter.Owner {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		tasks = append(tasks, task)
	}
	r.mu.RUnlock()

	SortTasks(tasks, filter.SortBy, filter.Order)
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Owner == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *task
	created.ID = uuid.NewString()
	created.CreatedAt = r.now()
	created.UpdatedAt = created.CreatedAt
	r.tasks[created.ID] = created
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id, owner string, patch domain.TaskPatch) (*domain.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.Owner != owner {
		return nil, domain.ErrTaskNotFound
	}
	patch.Apply(&task)
	task.UpdatedAt = r.now()
	r.tasks[id] = task
	return &task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id, owner string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.Owner != owner {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// SortTasks orders tasks by field and order, breaking ties by id so results are stable.
func SortTasks(tasks []domain.Task, field domain.SortField, order domain.SortOrder) {
	less := func(a, b domain.Task) int {
		switch field {
		case domain.SortByTitle:
			return strings.Compare(a.Title, b.Title)
		case domain.SortByDueDate:
			return a.DueDate.Compare(b.DueDate)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		c := less(tasks[i], tasks[j])
		if c == 0 {
			c = strings.Compare(tasks[i].ID, tasks[j].ID)
		}
		if order == domain.OrderAsc {
			return c < 0
		}
		return c > 0
	})
}

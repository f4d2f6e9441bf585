package repository

import (
	"context"

	"github.com/fastygo/tasktracker/domain"
)

// UserRepository is the credential store. Emails are stored normalized and are unique.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByEmail returns the user including PasswordHash.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/logger"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/usecase"
)

type UseCase struct {
	users  repository.UserRepository
	hasher usecase.PasswordHasher
	conn   usecase.Connector
	logger *zap.Logger
}

func New(users repository.UserRepository, hasher usecase.PasswordHasher, conn usecase.Connector, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		conn:   conn,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the provided fields. The stored hash is replaced only
// when a password is supplied and differs from the current one.
func (uc *UseCase) UpdateProfile(ctx context.Context, userID string, input domain.ProfileUpdateInput) (*domain.User, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := uc.users.GetByEmail(ctx, *input.Email); err == nil {
			return nil, domain.ErrEmailTaken
		} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Password != nil && !uc.hasher.Compare(user.PasswordHash, *input.Password) {
		hash, err := uc.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		logger.WithRequestID(ctx, uc.logger).Info("password changed", zap.String("user_id", user.ID))
	}

	if err := uc.users.Update(ctx, user); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

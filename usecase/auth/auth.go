package auth

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
	tokens usecase.TokenIssuer
	conn   usecase.Connector
	logger *zap.Logger
}

func New(
	users repository.UserRepository,
	hasher usecase.PasswordHasher,
	tokens usecase.TokenIssuer,
	conn usecase.Connector,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		conn:   conn,
		logger: logger,
	}
}

// Signup registers a user and opens a session for it.
func (uc *UseCase) Signup(ctx context.Context, input domain.SignupInput) (*domain.Session, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}

	if _, err := uc.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same address.
		if domain.IsDomainError(err, domain.ErrCodeConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	logger.WithRequestID(ctx, uc.logger).Info("user registered", zap.String("user_id", user.ID))
	return uc.openSession(user)
}

// Login checks credentials. Unknown email and wrong password are reported
// identically so callers cannot probe for accounts.
func (uc *UseCase) Login(ctx context.Context, input domain.LoginInput) (*domain.Session, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := usecase.EnsureConnected(ctx, uc.conn); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !uc.hasher.Compare(user.PasswordHash, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.openSession(user)
}

func (uc *UseCase) openSession(user *domain.User) (*domain.Session, error) {
	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	public := *user
	public.PasswordHash = ""
	return &domain.Session{
		User:      &public,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

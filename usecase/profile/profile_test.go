package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/security"
	"github.com/fastygo/tasktracker/repository"
	"github.com/fastygo/tasktracker/repository/memory"
)

type countingHasher struct {
	*security.Hasher
	hashes int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.Hasher.Hash(password)
}

func setup(t *testing.T) (*UseCase, repository.UserRepository, *countingHasher, *domain.User) {
	t.Helper()
	users := memory.NewStore().Users()
	hasher := &countingHasher{Hasher: security.NewHasher(bcrypt.MinCost)}

	hash, err := hasher.Hasher.Hash("password123")
	require.NoError(t, err)
	user, err := users.Create(context.Background(), &domain.User{Name: "John", Email: "john@example.com", PasswordHash: hash})
	require.NoError(t, err)

	return New(users, hasher, nil, nil), users, hasher, user
}

func ptr(s string) *string { return &s }

func TestGetProfile_HidesHash(t *testing.T) {
	uc, _, _, user := setup(t)

	got, err := uc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", got.Name)
	assert.Empty(t, got.PasswordHash)
}

func TestGetProfile_Unknown(t *testing.T) {
	uc, _, _, _ := setup(t)

	_, err := uc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile_WithoutPasswordKeepsHash(t *testing.T) {
	uc, users, hasher, user := setup(t)

	updated, err := uc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{Name: ptr("Johnny")})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.Name)
	assert.Empty(t, updated.PasswordHash)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
	assert.Zero(t, hasher.hashes)
}

func TestUpdateProfile_SamePasswordIsNotRehashed(t *testing.T) {
	uc, users, hasher, user := setup(t)

	_, err := uc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{Password: ptr("password123")})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
	assert.Zero(t, hasher.hashes)
}

func TestUpdateProfile_NewPasswordIsHashed(t *testing.T) {
	uc, users, hasher, user := setup(t)

	_, err := uc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{Password: ptr("new-password")})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, user.PasswordHash, stored.PasswordHash)
	assert.True(t, hasher.Compare(stored.PasswordHash, "new-password"))
	assert.Equal(t, 1, hasher.hashes)
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	uc, users, _, user := setup(t)
	_, err := users.Create(context.Background(), &domain.User{Name: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	_, err = uc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{Email: ptr(" JANE@example.com")})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUpdateProfile_EmailIsNormalized(t *testing.T) {
	uc, _, _, user := setup(t)

	updated, err := uc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{Email: ptr(" John.Doe@Example.com ")})
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", updated.Email)
}

func TestUpdateProfile_Invalid(t *testing.T) {
	uc, _, _, user := setup(t)

	_, err := uc.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdateInput{Password: ptr("123")})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

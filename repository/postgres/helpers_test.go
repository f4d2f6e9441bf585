package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/fastygo/tasktracker/domain"
)

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "ORDER BY created_at DESC, id DESC", orderClause("", ""))
	assert.Equal(t, "ORDER BY due_date ASC, id ASC", orderClause(domain.SortByDueDate, domain.OrderAsc))
	assert.Equal(t, "ORDER BY title DESC, id DESC", orderClause(domain.SortByTitle, domain.OrderDesc))
	assert.Equal(t, "ORDER BY created_at ASC, id ASC", orderClause("title; DROP TABLE tasks", domain.OrderAsc))
}

func TestTranslateError(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation}
	assert.True(t, domain.IsDomainError(translateError(unique), domain.ErrCodeConflict))

	cast := &pgconn.PgError{Code: pgInvalidTextRepresent}
	assert.True(t, domain.IsDomainError(translateError(cast), domain.ErrCodeInvalid))

	other := errors.New("connection reset")
	assert.Same(t, other, translateError(other))
	assert.NoError(t, translateError(nil))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("6f1c7f0a-8a4e-4c3e-9d2f-6b1d4a9e2c11"))
	assert.False(t, validID("64f1c2aa9b1e8a0012345678"))
	assert.False(t, validID(""))
}

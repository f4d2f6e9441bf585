package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawTaskQuery_Defaults(t *testing.T) {
	q, err := RawTaskQuery{}.Parse()
	require.NoError(t, err)

	assert.Equal(t, TaskStatus(""), q.Status)
	assert.Equal(t, SortByCreatedAt, q.SortBy)
	assert.Equal(t, OrderDesc, q.Order)
	assert.False(t, q.HasRange())
}

func TestRawTaskQuery_RejectsUnknownValues(t *testing.T) {
	_, err := RawTaskQuery{Status: "done", SortBy: "priority", Order: "up", From: "soon"}.Parse()
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
	for _, field := range []string{"status", "sortBy", "order", "from"} {
		assert.Contains(t, err.Error(), field+":")
	}
}

func TestRawTaskQuery_DateOnlyUpperBoundCoversDay(t *testing.T) {
	q, err := RawTaskQuery{From: "2025-01-01", To: "2025-01-31"}.Parse()
	require.NoError(t, err)

	assert.True(t, q.InRange(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, q.InRange(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, q.InRange(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, q.InRange(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
}

func TestRawTaskQuery_TimestampUpperBoundIsExact(t *testing.T) {
	q, err := RawTaskQuery{To: "2025-01-31T12:00:00Z"}.Parse()
	require.NoError(t, err)

	assert.True(t, q.InRange(time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)))
	assert.False(t, q.InRange(time.Date(2025, 1, 31, 12, 0, 1, 0, time.UTC)))
}

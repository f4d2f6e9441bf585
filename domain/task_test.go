package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskInput_ToTask(t *testing.T) {
	task, err := CreateTaskInput{
		Title:       "  Complete project ",
		Description: "Finish the task tracker",
		DueDate:     "2025-12-31",
	}.ToTask("owner-1")
	require.NoError(t, err)

	assert.Equal(t, "Complete project", task.Title)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, "owner-1", task.Owner)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), task.DueDate)
}

func TestCreateTaskInput_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr string
	}{
		{"missing title", CreateTaskInput{DueDate: "2025-01-01"}, "Title is required"},
		{"blank title", CreateTaskInput{Title: "   ", DueDate: "2025-01-01"}, "Title is required"},
		{"long title", CreateTaskInput{Title: strings.Repeat("t", 201), DueDate: "2025-01-01"}, "at most 200"},
		{"long description", CreateTaskInput{Title: "t", Description: strings.Repeat("d", 2001), DueDate: "2025-01-01"}, "at most 2000"},
		{"unknown status", CreateTaskInput{Title: "t", Status: "archived", DueDate: "2025-01-01"}, "pending or completed"},
		{"missing due date", CreateTaskInput{Title: "t"}, "dueDate"},
		{"bad due date", CreateTaskInput{Title: "t", DueDate: "tomorrow"}, "dueDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.ToTask("owner")
			require.Error(t, err)
			assert.True(t, IsDomainError(err, ErrCodeInvalid))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestUpdateTaskInput_ToPatch(t *testing.T) {
	status := TaskStatusCompleted
	due := "2026-03-01T10:30:00Z"
	patch, err := UpdateTaskInput{Status: &status, DueDate: &due}.ToPatch()
	require.NoError(t, err)

	assert.Nil(t, patch.Title)
	assert.False(t, patch.Empty())

	task := Task{Title: "keep", Status: TaskStatusPending}
	patch.Apply(&task)
	assert.Equal(t, "keep", task.Title)
	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), task.DueDate)
}

func TestUpdateTaskInput_RejectsEmptyTitle(t *testing.T) {
	empty := ""
	_, err := UpdateTaskInput{Title: &empty}.ToPatch()
	assert.ErrorContains(t, err, "Title is required")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value    string
		want     time.Time
		dateOnly bool
	}{
		{"2025-12-31", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"2025-12-31T08:15:00Z", time.Date(2025, 12, 31, 8, 15, 0, 0, time.UTC), false},
		{"2025-12-31T08:15:00+02:00", time.Date(2025, 12, 31, 6, 15, 0, 0, time.UTC), false},
		{"2025-12-31T08:15:00", time.Date(2025, 12, 31, 8, 15, 0, 0, time.UTC), false},
		{"2025-12-31T08:15:00.250Z", time.Date(2025, 12, 31, 8, 15, 0, 250_000_000, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, dateOnly, err := ParseDate(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, tt.dateOnly, dateOnly)
		})
	}

	_, _, err := ParseDate("31/12/2025")
	assert.Error(t, err)
}

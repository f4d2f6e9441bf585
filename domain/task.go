package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 2000
)

// Task represents a user-owned to-do item. Owner is fixed at creation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"dueDate"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskStatusCompleted
}

// CreateTaskInput is the wire shape of a new task.
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     string     `json:"dueDate"`
}

// ToTask validates the input and builds a task owned by owner.
func (in CreateTaskInput) ToTask(owner string) (*Task, error) {
	var errs ValidationErrors

	title := strings.TrimSpace(in.Title)
	validateTitle(&errs, title)

	description := strings.TrimSpace(in.Description)
	validateDescription(&errs, description)

	status := in.Status
	if status == "" {
		status = TaskStatusPending
	}
	if !status.Valid() {
		errs.Add("status", "Status must be either pending or completed")
	}

	due, _, err := ParseDate(in.DueDate)
	if err != nil {
		errs.Add("dueDate", "Please provide a valid date")
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return &Task{
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     due,
		Owner:       owner,
	}, nil
}

// UpdateTaskInput is a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status"`
	DueDate     *string     `json:"dueDate"`
}

// TaskPatch is a validated UpdateTaskInput as handed to the store.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// Apply copies the set fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}

func (in UpdateTaskInput) ToPatch() (TaskPatch, error) {
	var (
		errs  ValidationErrors
		patch TaskPatch
	)

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		validateTitle(&errs, title)
		patch.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		validateDescription(&errs, description)
		patch.Description = &description
	}
	if in.Status != nil {
		status := *in.Status
		if !status.Valid() {
			errs.Add("status", "Status must be either pending or completed")
		}
		patch.Status = &status
	}
	if in.DueDate != nil {
		due, _, err := ParseDate(*in.DueDate)
		if err != nil {
			errs.Add("dueDate", "Please provide a valid date")
		}
		patch.DueDate = &due
	}

	return patch, errs.Err()
}

func validateTitle(errs *ValidationErrors, title string) {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		errs.Add("title", "Title is required")
	case n > TitleMaxLength:
		errs.Add("title", "Title must be at most 200 characters")
	}
}

func validateDescription(errs *ValidationErrors, description string) {
	if utf8.RuneCountInString(description) > DescriptionMaxLength {
		errs.Add("description", "Description must be at most 2000 characters")
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts RFC3339 timestamps, naive timestamps (read as UTC) and bare
// YYYY-MM-DD dates (midnight UTC). dateOnly reports the last form.
func ParseDate(value string) (t time.Time, dateOnly bool, err error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed.UTC(), true, nil
	}
	for _, layout := range dateLayouts {
		parsed, perr := time.Parse(layout, value)
		if perr == nil {
			return parsed.UTC(), false, nil
		}
		err = perr
	}
	return time.Time{}, false, err
}

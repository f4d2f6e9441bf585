package domain

import "time"

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByDueDate   SortField = "dueDate"
	SortByTitle     SortField = "title"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// TaskQuery describes a list request for a single owner.
// From and To are inclusive bounds on DueDate.
type TaskQuery struct {
	Status TaskStatus
	SortBy SortField
	Order  SortOrder
	From   *time.Time
	To     *time.Time
}

// RawTaskQuery is the unparsed query-string form of TaskQuery.
type RawTaskQuery struct {
	Status string
	SortBy string
	Order  string
	From   string
	To     string
}

// Parse validates the raw values and fills defaults (createdAt, desc).
// A bare date in To covers the whole day.
func (r RawTaskQuery) Parse() (TaskQuery, error) {
	var (
		errs ValidationErrors
		q    TaskQuery
	)

	if r.Status != "" {
		q.Status = TaskStatus(r.Status)
		if !q.Status.Valid() {
			errs.Add("status", "Status must be either pending or completed")
		}
	}

	q.SortBy = SortField(r.SortBy)
	switch q.SortBy {
	case "":
		q.SortBy = SortByCreatedAt
	case SortByCreatedAt, SortByDueDate, SortByTitle:
	default:
		errs.Add("sortBy", "sortBy must be one of dueDate, createdAt, title")
	}

	q.Order = SortOrder(r.Order)
	switch q.Order {
	case "":
		q.Order = OrderDesc
	case OrderAsc, OrderDesc:
	default:
		errs.Add("order", "order must be asc or desc")
	}

	if r.From != "" {
		from, _, err := ParseDate(r.From)
		if err != nil {
			errs.Add("from", "Please provide a valid date")
		} else {
			q.From = &from
		}
	}
	if r.To != "" {
		to, dateOnly, err := ParseDate(r.To)
		if err != nil {
			errs.Add("to", "Please provide a valid date")
		} else {
			if dateOnly {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			q.To = &to
		}
	}

	return q, errs.Err()
}

// Normalized fills in defaults for a query built in code.
func (q TaskQuery) Normalized() TaskQuery {
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}
	return q
}

// InRange reports whether due falls within the inclusive [From, To] window.
func (q TaskQuery) InRange(due time.Time) bool {
	if q.From != nil && due.Before(*q.From) {
		return false
	}
	if q.To != nil && due.After(*q.To) {
		return false
	}
	return true
}

// HasRange reports whether a due-date window was requested.
func (q TaskQuery) HasRange() bool {
	return q.From != nil || q.To != nil
}

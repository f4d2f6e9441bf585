package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/tasktracker/domain"
)

const (
	pgUniqueViolation      = "23505"
	pgInvalidTextRepresent = "22P02"
)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.WrapError(domain.ErrCodeConflict, domain.ErrDuplicate.Message, err)
		case pgInvalidTextRepresent:
			return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidID.Message, err)
		}
	}
	return err
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// orderClause maps a sort request onto a fixed column list; never interpolate raw input.
func orderClause(field domain.SortField, order domain.SortOrder) string {
	column := "created_at"
	switch field {
	case domain.SortByDueDate:
		column = "due_date"
	case domain.SortByTitle:
		column = "title"
	}
	direction := "DESC"
	if order == domain.OrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", column, direction, direction)
}

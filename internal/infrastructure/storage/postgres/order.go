package postgres

import (
	"strings"

	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
)

// OrderClause converts an API orderBy value ("name", "-created_at")
// into a SQL ORDER BY expression. The field must be in the allowed
// whitelist; anything else is a validation error.
func OrderClause(orderBy string, allowed ...string) (string, error) {
	if orderBy == "" {
		return "created_at ASC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	for _, a := range allowed {
		if field == a {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").
		WithDetail("orderBy", orderBy).
		WithDetail("field", field)
}

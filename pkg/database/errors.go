package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolation = pq.ErrorCode("23505")
	invalidText     = pq.ErrorCode("22P02")
)

// IsUniqueViolation reports whether err carries a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// IsInvalidText reports whether PostgreSQL rejected a parameter's text form, such as a
// malformed uuid in a lookup.
func IsInvalidText(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == invalidText
	}
	return false
}

// ConstraintName returns the violated constraint, if any.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

package utils

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised when an insert or
// update trips a unique constraint.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Check-then-insert sequences race under concurrency, so
// handlers use this to turn the constraint backstop into a conflict
// response instead of a server error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

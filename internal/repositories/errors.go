package repositories

import "errors"

// ErrUniqueViolation is returned when an insert hits a unique constraint.
// Under concurrent registration the pre-check in the service layer can pass
// for both writers; this error from the insert itself is the authoritative
// conflict signal.
var ErrUniqueViolation = errors.New("unique constraint violation")

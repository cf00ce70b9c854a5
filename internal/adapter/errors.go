package adapter

import (
	"errors"
)

// ErrNotFound is returned when a requested resource is not found. A delete of
// an already-deleted ID surfaces this rather than being absorbed.
var ErrNotFound = errors.New("resource not found")

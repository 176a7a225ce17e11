package repositories

import "errors"

// Sentinel errors shared by the postgres and mongo repositories. Driver
// specific errors are translated to these so callers never import a driver.
var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrDuplicate = errors.New("duplicate record")
	ErrConflict  = errors.New("concurrent update conflict")
)

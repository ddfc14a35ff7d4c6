package repositories

import "errors"

// Sentinel errors surfaced to the service layer, which maps them onto
// the HTTP error taxonomy.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrLastAdmin     = errors.New("cannot remove the last active admin")
	ErrHasDependents = errors.New("record is referenced by other records")
)

package domain

import (
	"errors"
	"fmt"
)

// CodeForeignKeyViolation is the machine-readable code remote stores attach
// to a mutation rejected by a referential-integrity constraint. The value is
// the PostgreSQL class-23 foreign_key_violation SQLSTATE; every backend
// normalizes to it so callers need a single check.
const CodeForeignKeyViolation = "23503"

// RemoteError is a structured failure returned by a remote store operation.
type RemoteError struct {
	Code    string
	Message string
}

func (e RemoteError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

// IsForeignKeyViolation reports whether err carries the foreign-key
// violation code from a remote store.
func IsForeignKeyViolation(err error) bool {
	var re RemoteError
	return errors.As(err, &re) && re.Code == CodeForeignKeyViolation
}

// DependentsError reports a delete refused locally because dependent records
// reference the target entity.
type DependentsError struct {
	Entity EntityType
	ID     string
	Count  int
}

func (e DependentsError) Error() string {
	return fmt.Sprintf("%s %s has %d dependent records", e.Entity, e.ID, e.Count)
}

// ErrNotFound is returned when an entity id is absent from the collection.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrMutationInFlight is returned when a mutation targets an entity id that
// already has a mutation awaiting its remote call.
var ErrMutationInFlight = errors.New("mutation already in flight for entity")

// ErrUploadInProgress is returned when an edit session is submitted while an
// associated asynchronous upload has not completed.
var ErrUploadInProgress = errors.New("upload still in progress")

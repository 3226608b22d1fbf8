package ticketing

import (
	"errors"
	"fmt"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// EntityKind names the store an identifier was looked up in.
type EntityKind string

const (
	KindEvent  EntityKind = "event"
	KindUser   EntityKind = "user"
	KindTicket EntityKind = "ticket"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrCreationFailed is returned when a freshly allocated id already
	// had a record in its store.
	ErrCreationFailed = errors.New("creation failed")
	// ErrUpdateFailed is returned when a replaced record had no previous
	// value in its store.
	ErrUpdateFailed = errors.New("update failed")
	// ErrAssociationFailed matches every *AssociationError via errors.Is.
	ErrAssociationFailed = errors.New("association failed")
)

// NotFoundError reports an identifier absent from its store.
type NotFoundError struct {
	Kind EntityKind
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s id:%d does not exist", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(kind EntityKind, id uint64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// AssociationError is returned by CreateTicket when linking the new ticket
// to its event or user fails.  Ticket is the record that was built and
// pre-committed.  RolledBack reports whether at least one compensation was
// recorded and every recorded one succeeded.  It says nothing about writes
// the rollback mode never compensates: in RollbackFaithful mode a failure
// linking the user still leaves the attendee entry on the event, and
// RolledBack is true.
type AssociationError struct {
	Message    string
	Ticket     model.Ticket
	RolledBack bool
	Err        error
}

func (e *AssociationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AssociationError) Unwrap() error { return e.Err }

func (e *AssociationError) Is(target error) bool { return target == ErrAssociationFailed }

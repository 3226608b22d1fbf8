// Package ticketing keeps events, users and tickets consistent with one
// another.  Relationships are stored as link arrays inside the entity
// records (Event.AttendeeIDs, Event.TicketIDs, User.TicketIDs), so any
// operation touching more than one entity writes several records in
// sequence.  There is no transaction underneath; CreateTicket uses a
// saga of compensating writes, every other multi-write operation leaves
// earlier writes in place when a later one fails.
package ticketing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/event-ticketing/internal/clock"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// RollbackMode selects how CreateTicket compensates a failed association.
type RollbackMode int

const (
	// RollbackFaithful deletes the ticket row when linking to the event's
	// attendees or to the user fails, and leaves everything in place when
	// the final event-side link fails.
	RollbackFaithful RollbackMode = iota
	// RollbackSymmetric undoes every committed step on any failure,
	// including the final one.
	RollbackSymmetric
)

func (m RollbackMode) String() string {
	switch m {
	case RollbackFaithful:
		return "faithful"
	case RollbackSymmetric:
		return "symmetric"
	}
	return fmt.Sprintf("RollbackMode(%d)", int(m))
}

// ParseRollbackMode accepts "faithful" or "symmetric", case-insensitively.
// An empty string selects RollbackFaithful.
func ParseRollbackMode(s string) (RollbackMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "faithful":
		return RollbackFaithful, nil
	case "symmetric":
		return RollbackSymmetric, nil
	}
	return RollbackFaithful, fmt.Errorf("unknown rollback mode %q", s)
}

// Option configures a Service.
type Option func(*Service)

// WithRollbackMode sets the CreateTicket rollback mode.
func WithRollbackMode(m RollbackMode) Option {
	return func(s *Service) { s.rollback = m }
}

// Service is the relational-integrity engine.  Exported methods run one
// at a time: each holds the service lock until all of its writes are
// done, so callers never observe a half-applied operation.  The lock does
// not make an operation atomic against a crash between writes.
type Service struct {
	mu       sync.Mutex
	store    *repository.Store
	clock    clock.Clock
	rollback RollbackMode
}

// NewService returns a Service over store using clk for timestamps.
func NewService(store *repository.Store, clk clock.Clock, opts ...Option) *Service {
	if store == nil || clk == nil {
		panic("nil dependency passed to ticketing.NewService")
	}
	s := &Service{store: store, clock: clk}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RollbackMode reports the configured CreateTicket rollback mode.
func (s *Service) RollbackMode() RollbackMode { return s.rollback }

func (s *Service) loadEvent(ctx context.Context, id uint64) (model.Event, error) {
	e, ok, err := s.store.Events.Get(ctx, id)
	if err != nil {
		return e, err
	}
	if !ok {
		return e, notFound(KindEvent, id)
	}
	return e, nil
}

func (s *Service) loadUser(ctx context.Context, id uint64) (model.User, error) {
	u, ok, err := s.store.Users.Get(ctx, id)
	if err != nil {
		return u, err
	}
	if !ok {
		return u, notFound(KindUser, id)
	}
	return u, nil
}

func (s *Service) loadTicket(ctx context.Context, id uint64) (model.Ticket, error) {
	t, ok, err := s.store.Tickets.Get(ctx, id)
	if err != nil {
		return t, err
	}
	if !ok {
		return t, notFound(KindTicket, id)
	}
	return t, nil
}

// The save helpers write back a record that is known to exist.  A store
// that reports no previous value means the record vanished underneath us.

func (s *Service) saveEvent(ctx context.Context, e model.Event) error {
	_, existed, err := s.store.Events.Insert(ctx, e.ID, e)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: event id:%d had no previous record", ErrUpdateFailed, e.ID)
	}
	return nil
}

func (s *Service) saveUser(ctx context.Context, u model.User) error {
	_, existed, err := s.store.Users.Insert(ctx, u.ID, u)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: user id:%d had no previous record", ErrUpdateFailed, u.ID)
	}
	return nil
}

func (s *Service) saveTicket(ctx context.Context, t model.Ticket) error {
	_, existed, err := s.store.Tickets.Insert(ctx, t.ID, t)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: ticket id:%d had no previous record", ErrUpdateFailed, t.ID)
	}
	return nil
}

// now returns the current time as a pointer for UpdatedAt fields.
func (s *Service) now() *time.Time {
	t := s.clock.Now()
	return &t
}

// without returns ids with every occurrence of id removed.
func without(ids []uint64, id uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// withoutLast returns ids with only the last occurrence of id removed.
func withoutLast(ids []uint64, id uint64) []uint64 {
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == id {
			out := make([]uint64, 0, len(ids)-1)
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...)
		}
	}
	return ids
}

// appended returns a copy of ids with id added at the end.
func appended(ids []uint64, id uint64) []uint64 {
	out := make([]uint64, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}

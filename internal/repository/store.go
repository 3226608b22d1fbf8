package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-ticketing/internal/codec"
	"github.com/iliyamo/event-ticketing/internal/kv"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// Names of the backend maps and the allocator cell.
const (
	IDsCell    = "ids"
	EventsMap  = "events"
	UsersMap   = "users"
	TicketsMap = "tickets"
)

// EntityStore is a typed view over a SortedMap whose values are
// codec-encoded entities of type T.
type EntityStore[T any] struct {
	name string
	m    kv.SortedMap
}

// NewEntityStore wraps m.  name is used in error messages only.
func NewEntityStore[T any](name string, m kv.SortedMap) *EntityStore[T] {
	return &EntityStore[T]{name: name, m: m}
}

func (s *EntityStore[T]) decode(id uint64, data []byte) (T, error) {
	var v T
	if err := codec.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %s/%d: %w", ErrCorruptRecord, s.name, id, err)
	}
	return v, nil
}

// Get returns the entity stored under id and whether it exists.
func (s *EntityStore[T]) Get(ctx context.Context, id uint64) (T, bool, error) {
	var zero T
	data, ok, err := s.m.Get(ctx, id)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := s.decode(id, data)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Insert stores v under id and returns the previous entity, if any.  The
// encoded record must fit in codec.MaxRecordSize; otherwise nothing is
// written.
func (s *EntityStore[T]) Insert(ctx context.Context, id uint64, v T) (T, bool, error) {
	var zero T
	data, err := codec.Marshal(v)
	if err != nil {
		return zero, false, fmt.Errorf("%s/%d: %w", s.name, id, err)
	}
	prev, existed, err := s.m.Insert(ctx, id, data)
	if err != nil || !existed {
		return zero, false, err
	}
	old, err := s.decode(id, prev)
	if err != nil {
		// The write went through; only the previous value is unreadable.
		return zero, true, nil
	}
	return old, true, nil
}

// Remove deletes id and returns the removed entity, if any.
func (s *EntityStore[T]) Remove(ctx context.Context, id uint64) (T, bool, error) {
	var zero T
	prev, existed, err := s.m.Remove(ctx, id)
	if err != nil || !existed {
		return zero, false, err
	}
	old, err := s.decode(id, prev)
	if err != nil {
		return zero, true, nil
	}
	return old, true, nil
}

// Scan returns every entity in ascending id order.
func (s *EntityStore[T]) Scan(ctx context.Context) ([]T, error) {
	entries, err := s.m.Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		v, err := s.decode(e.Key, e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Store owns the identifier allocator and the three entity stores.  It is
// passed explicitly to the ticketing engine; there is no package-level
// state.
type Store struct {
	IDs     *Allocator
	Events  *EntityStore[model.Event]
	Users   *EntityStore[model.User]
	Tickets *EntityStore[model.Ticket]
}

// New assembles a Store from an allocator cell and three maps.
func New(ids kv.Cell, events, users, tickets kv.SortedMap) *Store {
	return &Store{
		IDs:     NewAllocator(ids),
		Events:  NewEntityStore[model.Event](EventsMap, events),
		Users:   NewEntityStore[model.User](UsersMap, users),
		Tickets: NewEntityStore[model.Ticket](TicketsMap, tickets),
	}
}

// Open builds a Store from the named maps and cell of b.
func Open(ctx context.Context, b kv.Backend) (*Store, error) {
	ids, err := b.Cell(ctx, IDsCell)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	maps := make([]kv.SortedMap, 0, 3)
	for _, name := range []string{EventsMap, UsersMap, TicketsMap} {
		m, err := b.Map(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		maps = append(maps, m)
	}
	return New(ids, maps[0], maps[1], maps[2]), nil
}

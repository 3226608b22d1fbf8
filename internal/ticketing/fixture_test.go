package ticketing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/event-ticketing/internal/clock"
	"github.com/iliyamo/event-ticketing/internal/kv"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

var errInjected = errors.New("injected store failure")

// faultyMap wraps a SortedMap and fails chosen writes.
type faultyMap struct {
	kv.SortedMap

	mu         sync.Mutex
	failInsert int // the failInsert-th insert from now fails; 0 disables
	failRemove bool
}

// failNthInsert makes the n-th insert after this call fail once.
func (f *faultyMap) failNthInsert(n int) {
	f.mu.Lock()
	f.failInsert = n
	f.mu.Unlock()
}

func (f *faultyMap) Insert(ctx context.Context, key uint64, value []byte) ([]byte, bool, error) {
	f.mu.Lock()
	if f.failInsert > 0 {
		f.failInsert--
		if f.failInsert == 0 {
			f.mu.Unlock()
			return nil, false, errInjected
		}
	}
	f.mu.Unlock()
	return f.SortedMap.Insert(ctx, key, value)
}

func (f *faultyMap) Remove(ctx context.Context, key uint64) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failRemove
	f.mu.Unlock()
	if fail {
		return nil, false, errInjected
	}
	return f.SortedMap.Remove(ctx, key)
}

type fixture struct {
	ctx     context.Context
	svc     *Service
	clock   *clock.Manual
	events  *faultyMap
	users   *faultyMap
	tickets *faultyMap
}

var epoch = time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	b := kv.NewMemory()
	ids, err := b.Cell(ctx, repository.IDsCell)
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	open := func(name string) *faultyMap {
		m, err := b.Map(ctx, name)
		if err != nil {
			t.Fatalf("Map(%s): %v", name, err)
		}
		return &faultyMap{SortedMap: m}
	}
	f := &fixture{
		ctx:     ctx,
		clock:   clock.NewManual(epoch),
		events:  open(repository.EventsMap),
		users:   open(repository.UsersMap),
		tickets: open(repository.TicketsMap),
	}
	store := repository.New(ids, f.events, f.users, f.tickets)
	f.svc = NewService(store, f.clock, opts...)
	return f
}

func (f *fixture) event(t *testing.T, name string) model.Event {
	t.Helper()
	e, err := f.svc.CreateEvent(f.ctx, model.EventPayload{
		Name:        name,
		Description: name + " description",
		Date:        "2025-09-01",
		StartTime:   "19:00",
		Location:    "Main Hall",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

func (f *fixture) user(t *testing.T, name string) model.User {
	t.Helper()
	u, err := f.svc.CreateUser(f.ctx, model.UserPayload{
		Name:     name,
		Email:    name + "@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func count(ids []uint64, id uint64) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}

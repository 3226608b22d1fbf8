package ticketing

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// ListEvents returns every event in ascending id order.
func (s *Service) ListEvents(ctx context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Events.Scan(ctx)
}

// GetEvent returns the event with the given id.
func (s *Service) GetEvent(ctx context.Context, id uint64) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadEvent(ctx, id)
}

// CreateEvent allocates an id and stores a new event with empty link
// arrays.
func (s *Service) CreateEvent(ctx context.Context, p model.EventPayload) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.IDs.Next(ctx)
	if err != nil {
		return model.Event{}, err
	}
	e := model.Event{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Date:        p.Date,
		StartTime:   p.StartTime,
		Location:    p.Location,
		AttendeeIDs: []uint64{},
		TicketIDs:   []uint64{},
		CreatedAt:   s.clock.Now(),
	}
	_, existed, err := s.store.Events.Insert(ctx, id, e)
	if err != nil {
		return model.Event{}, err
	}
	if existed {
		return model.Event{}, fmt.Errorf("%w: event id:%d already existed", ErrCreationFailed, id)
	}
	return e, nil
}

// UpdateEvent replaces the caller-supplied fields of an event.  Link
// arrays and CreatedAt are preserved.
func (s *Service) UpdateEvent(ctx context.Context, id uint64, p model.EventPayload) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.loadEvent(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	e.Name = p.Name
	e.Description = p.Description
	e.Date = p.Date
	e.StartTime = p.StartTime
	e.Location = p.Location
	e.UpdatedAt = s.now()
	if err := s.saveEvent(ctx, e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// DeleteEvent removes an event.  Tickets and users referencing it are
// left untouched.
func (s *Service) DeleteEvent(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadEvent(ctx, id); err != nil {
		return err
	}
	_, _, err := s.store.Events.Remove(ctx, id)
	return err
}

// EventAttendees resolves the event's attendee list to users, in list
// order and including duplicates.  A listed user that no longer exists
// fails the whole call.
func (s *Service) EventAttendees(ctx context.Context, id uint64) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(e.AttendeeIDs))
	for _, uid := range e.AttendeeIDs {
		u, err := s.loadUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// EventTickets resolves the event's ticket list to tickets.
func (s *Service) EventTickets(ctx context.Context, id uint64) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.loadEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolveTickets(ctx, e.TicketIDs)
}

func (s *Service) resolveTickets(ctx context.Context, ids []uint64) ([]model.Ticket, error) {
	tickets := make([]model.Ticket, 0, len(ids))
	for _, tid := range ids {
		t, err := s.loadTicket(ctx, tid)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

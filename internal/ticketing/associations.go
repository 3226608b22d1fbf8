package ticketing

import (
	"context"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// AttachAttendee appends userID to the event's attendee list.  Repeated
// calls append duplicates.
func (s *Service) AttachAttendee(ctx context.Context, eventID, userID uint64) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachAttendee(ctx, eventID, userID)
}

func (s *Service) attachAttendee(ctx context.Context, eventID, userID uint64) (model.Event, error) {
	e, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return model.Event{}, err
	}
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return model.Event{}, err
	}
	e.AttendeeIDs = appended(e.AttendeeIDs, u.ID)
	e.UpdatedAt = s.now()
	if err := s.saveEvent(ctx, e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// AttachEventTicket appends ticketID to the event's ticket list.
func (s *Service) AttachEventTicket(ctx context.Context, eventID, ticketID uint64) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachEventTicket(ctx, eventID, ticketID)
}

func (s *Service) attachEventTicket(ctx context.Context, eventID, ticketID uint64) (model.Event, error) {
	e, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return model.Event{}, err
	}
	t, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return model.Event{}, err
	}
	e.TicketIDs = appended(e.TicketIDs, t.ID)
	e.UpdatedAt = s.now()
	if err := s.saveEvent(ctx, e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// AttachUserTicket appends ticketID to the user's ticket list.
func (s *Service) AttachUserTicket(ctx context.Context, userID, ticketID uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachUserTicket(ctx, userID, ticketID)
}

func (s *Service) attachUserTicket(ctx context.Context, userID, ticketID uint64) (model.User, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	t, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return model.User{}, err
	}
	u.TicketIDs = appended(u.TicketIDs, t.ID)
	u.UpdatedAt = s.now()
	if err := s.saveUser(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// DetachUserTicket removes every occurrence of ticketID from the user's
// ticket list.  Both the user and the ticket must exist.
func (s *Service) DetachUserTicket(ctx context.Context, userID, ticketID uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	t, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return model.User{}, err
	}
	u.TicketIDs = without(u.TicketIDs, t.ID)
	u.UpdatedAt = s.now()
	if err := s.saveUser(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// DetachEventTicket removes every occurrence of ticketID from the event's
// ticket list.  CreateTicket never calls it.
func (s *Service) DetachEventTicket(ctx context.Context, eventID, ticketID uint64) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return model.Event{}, err
	}
	t, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return model.Event{}, err
	}
	e.TicketIDs = without(e.TicketIDs, t.ID)
	e.UpdatedAt = s.now()
	if err := s.saveEvent(ctx, e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

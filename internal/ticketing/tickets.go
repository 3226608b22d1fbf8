package ticketing

import (
	"context"
	"fmt"
	"log"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// ListTickets returns every ticket in ascending id order.
func (s *Service) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Tickets.Scan(ctx)
}

func (s *Service) GetTicket(ctx context.Context, id uint64) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTicket(ctx, id)
}

// CreateTicket issues a ticket for p.UserID to p.EventID and links it from
// both sides.  The steps are:
//
//  1. allocate an id and store the ticket row;
//  2. append the user to the event's attendees;
//  3. append the ticket to the user's tickets;
//  4. append the ticket to the event's tickets.
//
// A failure in step 2 or 3 deletes the ticket row and returns an
// *AssociationError.  A failure in step 4 is reported the same way, but in
// RollbackFaithful mode nothing is undone: the ticket row, the attendee
// entry and the user-side link all remain.  RollbackSymmetric undoes
// steps 3, 2 and 1 in that order.  The id consumed in step 1 is never
// reused.
func (s *Service) CreateTicket(ctx context.Context, p model.TicketPayload) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.IDs.Next(ctx)
	if err != nil {
		return model.Ticket{}, err
	}
	t := model.Ticket{
		ID:        id,
		EventID:   p.EventID,
		UserID:    p.UserID,
		CreatedAt: s.clock.Now(),
	}
	_, existed, err := s.store.Tickets.Insert(ctx, id, t)
	if err != nil {
		return model.Ticket{}, err
	}
	if existed {
		return model.Ticket{}, fmt.Errorf("%w: ticket id:%d already existed", ErrCreationFailed, id)
	}

	sg := newSaga(fmt.Sprintf("create ticket %d", id))
	sg.record("ticket row", func(ctx context.Context) error {
		_, _, err := s.store.Tickets.Remove(ctx, id)
		return err
	})

	if _, err := s.attachAttendee(ctx, p.EventID, p.UserID); err != nil {
		return model.Ticket{}, s.abort(ctx, sg, t, "failed to add attendee to event", err)
	}
	if s.rollback == RollbackSymmetric {
		sg.record("attendee entry", func(ctx context.Context) error {
			return s.dropAttendee(ctx, p.EventID, p.UserID)
		})
	}

	if _, err := s.attachUserTicket(ctx, p.UserID, id); err != nil {
		return model.Ticket{}, s.abort(ctx, sg, t, "failed to link ticket to user", err)
	}
	if s.rollback == RollbackSymmetric {
		sg.record("user ticket link", func(ctx context.Context) error {
			return s.unlinkUserTicket(ctx, p.UserID, id)
		})
	} else {
		// The user side now points at the ticket; deleting the row from
		// here on would leave a dangling user link instead.
		sg.forget()
	}

	if _, err := s.attachEventTicket(ctx, p.EventID, id); err != nil {
		return model.Ticket{}, s.abort(ctx, sg, t, "failed to link ticket to event", err)
	}
	return t, nil
}

// abort runs the saga's compensations and builds the AssociationError.
func (s *Service) abort(ctx context.Context, sg *saga, t model.Ticket, msg string, cause error) error {
	if len(sg.steps) == 0 {
		log.Printf("ticketing: %s: %s: %v; leaving partial links in place", sg.op, msg, cause)
		return &AssociationError{Message: msg, Ticket: t, Err: cause}
	}
	log.Printf("ticketing: %s: %s: %v; rolling back", sg.op, msg, cause)
	ae := &AssociationError{Message: msg, Ticket: t, RolledBack: true, Err: cause}
	if err := sg.compensate(ctx); err != nil {
		ae.RolledBack = false
		ae.Err = fmt.Errorf("%w; rollback: %w", cause, err)
	}
	return ae
}

// dropAttendee removes the most recent attendee entry for userID.  Earlier
// entries for the same user were added by other calls and stay.
func (s *Service) dropAttendee(ctx context.Context, eventID, userID uint64) error {
	e, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	e.AttendeeIDs = withoutLast(e.AttendeeIDs, userID)
	e.UpdatedAt = s.now()
	return s.saveEvent(ctx, e)
}

func (s *Service) unlinkUserTicket(ctx context.Context, userID, ticketID uint64) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	u.TicketIDs = without(u.TicketIDs, ticketID)
	u.UpdatedAt = s.now()
	return s.saveUser(ctx, u)
}

// UpdateTicket replaces the event and user a ticket refers to.  Link
// arrays on either side are not adjusted.
func (s *Service) UpdateTicket(ctx context.Context, id uint64, p model.TicketPayload) (model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.loadTicket(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}
	t.EventID = p.EventID
	t.UserID = p.UserID
	t.UpdatedAt = s.now()
	if err := s.saveTicket(ctx, t); err != nil {
		return model.Ticket{}, err
	}
	return t, nil
}

// DeleteTicket unlinks a ticket from its user and event and removes it.
// The user is written first, then the event, then the ticket row is
// removed; a failure stops the sequence without undoing earlier writes.
func (s *Service) DeleteTicket(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.loadTicket(ctx, id)
	if err != nil {
		return err
	}
	u, err := s.loadUser(ctx, t.UserID)
	if err != nil {
		return err
	}
	e, err := s.loadEvent(ctx, t.EventID)
	if err != nil {
		return err
	}

	u.TicketIDs = without(u.TicketIDs, id)
	u.UpdatedAt = s.now()
	if err := s.saveUser(ctx, u); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	e.TicketIDs = without(e.TicketIDs, id)
	e.UpdatedAt = s.now()
	if err := s.saveEvent(ctx, e); err != nil {
		log.Printf("ticketing: delete ticket %d: user %d already unlinked: %v", id, u.ID, err)
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	if _, _, err := s.store.Tickets.Remove(ctx, id); err != nil {
		log.Printf("ticketing: delete ticket %d: links removed but row kept: %v", id, err)
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	return nil
}

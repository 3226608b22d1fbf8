package ticketing

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// ListUsers returns every user in ascending id order.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Users.Scan(ctx)
}

func (s *Service) GetUser(ctx context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUser(ctx, id)
}

// CreateUser allocates an id and stores a new user with empty link arrays.
func (s *Service) CreateUser(ctx context.Context, p model.UserPayload) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.store.IDs.Next(ctx)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:        id,
		Name:      p.Name,
		Email:     p.Email,
		Password:  p.Password,
		EventIDs:  []uint64{},
		TicketIDs: []uint64{},
		CreatedAt: s.clock.Now(),
	}
	_, existed, err := s.store.Users.Insert(ctx, id, u)
	if err != nil {
		return model.User{}, err
	}
	if existed {
		return model.User{}, fmt.Errorf("%w: user id:%d already existed", ErrCreationFailed, id)
	}
	return u, nil
}

// UpdateUser replaces name, email and password; link arrays and CreatedAt
// are preserved.
func (s *Service) UpdateUser(ctx context.Context, id uint64, p model.UserPayload) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.loadUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	u.Name = p.Name
	u.Email = p.Email
	u.Password = p.Password
	u.UpdatedAt = s.now()
	if err := s.saveUser(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// DeleteUser removes a user.  Tickets held by the user and attendee
// entries naming the user are left in place.
func (s *Service) DeleteUser(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadUser(ctx, id); err != nil {
		return err
	}
	_, _, err := s.store.Users.Remove(ctx, id)
	return err
}

// UserTickets resolves the user's ticket list to tickets.
func (s *Service) UserTickets(ctx context.Context, id uint64) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolveTickets(ctx, u.TicketIDs)
}

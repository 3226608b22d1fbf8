package model

import "time"

// Ticket links one user to one event.  A ticket is referenced from the
// owning event's TicketIDs and the owning user's TicketIDs; neither
// reference is enforced by storage.
type Ticket struct {
    ID        uint64     `json:"id"`
    EventID   uint64     `json:"event_id"`
    UserID    uint64     `json:"user_id"`
    CreatedAt time.Time  `json:"created_at"`
    UpdatedAt *time.Time `json:"updated_at"`
}

// TicketPayload names the event and user a ticket is issued for.
type TicketPayload struct {
    EventID uint64 `json:"event_id"`
    UserID  uint64 `json:"user_id"`
}

// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// TicketQueueName is the durable queue carrying ticket lifecycle events.
const TicketQueueName = "ticket.events"

// Ticket lifecycle event types.
const (
    TicketCreated = "ticket.created"
    TicketDeleted = "ticket.deleted"
)

// TicketEvent is published after a ticket is created or deleted.  It carries
// enough to log or notify without reading the stores back.
type TicketEvent struct {
    Type       string `json:"type"`
    TicketID   uint64 `json:"ticket_id"`
    EventID    uint64 `json:"event_id"`
    UserID     uint64 `json:"user_id"`
    EventName  string `json:"event_name,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

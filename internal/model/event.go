package model

import "time"

// Event represents a scheduled happening that users attend by holding
// tickets.  It corresponds to a record in the `events` store, keyed by
// the shared identifier allocator.
//
// Fields:
//  ID          – allocator-issued identifier, unique across all entities.
//  Name        – display name of the event.
//  Description – free-form description.
//  Date        – calendar date, stored as supplied by the caller.
//  StartTime   – start time, stored as supplied by the caller.
//  Location    – venue or address.
//  AttendeeIDs – user IDs registered as attendees; duplicates allowed.
//  TicketIDs   – ticket IDs issued against this event.
//  CreatedAt   – set once at creation.
//  UpdatedAt   – nil until the first mutation after creation.
type Event struct {
    ID          uint64     `json:"id"`
    Name        string     `json:"name"`
    Description string     `json:"description"`
    Date        string     `json:"date"`
    StartTime   string     `json:"start_time"`
    Location    string     `json:"location"`
    AttendeeIDs []uint64   `json:"attendee_ids"`
    TicketIDs   []uint64   `json:"ticket_ids"`
    CreatedAt   time.Time  `json:"created_at"`
    UpdatedAt   *time.Time `json:"updated_at"`
}

// EventPayload carries the caller-supplied fields of an event for create
// and update operations.
type EventPayload struct {
    Name        string `json:"name"`
    Description string `json:"description"`
    Date        string `json:"date"`
    StartTime   string `json:"start_time"`
    Location    string `json:"location"`
}

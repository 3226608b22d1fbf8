package model

import "time"

// User represents an account that can attend events and hold tickets.
// The password is an opaque string and is stored exactly as supplied.
//
// Fields:
//  ID        – allocator-issued identifier.
//  Name      – display name.
//  Email     – contact address; uniqueness is not enforced.
//  Password  – opaque credential string.
//  EventIDs  – declared for compatibility; no operation populates it.
//  TicketIDs – ticket IDs held by the user.
//  CreatedAt – set once at creation.
//  UpdatedAt – nil until the first mutation after creation.
type User struct {
    ID        uint64     `json:"id"`
    Name      string     `json:"name"`
    Email     string     `json:"email"`
    Password  string     `json:"password"`
    EventIDs  []uint64   `json:"event_ids"`
    TicketIDs []uint64   `json:"ticket_ids"`
    CreatedAt time.Time  `json:"created_at"`
    UpdatedAt *time.Time `json:"updated_at"`
}

// UserPayload carries the caller-supplied fields of a user.
type UserPayload struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
}

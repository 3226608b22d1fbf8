// Package repository defines error types that are reused across the
// entity stores.  These sentinel values let higher layers such as the
// ticketing engine and the HTTP handlers tell storage failures apart
// from missing records: a missing record is never an error here, it is
// reported through the boolean result of Get, Insert and Remove.
package repository

import "errors"

// ErrCorruptRecord is returned when bytes read from a map cannot be
// decoded into the entity type of the store.  The record is left in
// place so it can be inspected.
var ErrCorruptRecord = errors.New("corrupt record")

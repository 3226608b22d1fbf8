package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/event-ticketing/internal/kv"
)

// Allocator issues strictly increasing identifiers shared by events,
// users and tickets.  The counter lives in a durable cell, so identifiers
// keep increasing across restarts and are never reused.
type Allocator struct {
	cell kv.Cell
}

// NewAllocator returns an Allocator backed by cell.
func NewAllocator(cell kv.Cell) *Allocator { return &Allocator{cell: cell} }

// Next returns the current counter value and persists value+1.  The first
// identifier on a fresh store is 0.
func (a *Allocator) Next(ctx context.Context) (uint64, error) {
	id, err := a.cell.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	if err := a.cell.Set(ctx, id+1); err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	return id, nil
}

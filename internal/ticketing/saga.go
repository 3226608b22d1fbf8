package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// compensation undoes one committed step of a multi-entity operation.
type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga records compensations for the steps of an operation that have
// already been written.  There is no transaction underneath: a rollback
// is a best-effort sequence of compensating writes.
type saga struct {
	op    string
	steps []compensation
}

func newSaga(op string) *saga { return &saga{op: op} }

// record registers undo for a step that has just been committed.
func (s *saga) record(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// forget drops every recorded compensation.  Steps committed so far stay
// in place whatever happens next.
func (s *saga) forget() { s.steps = nil }

// compensate runs the recorded compensations newest first.  Every
// compensation is attempted; their failures are joined.
func (s *saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			log.Printf("ticketing: %s: compensation %q failed: %v", s.op, step.name, err)
			errs = append(errs, fmt.Errorf("undo %s: %w", step.name, err))
			continue
		}
		log.Printf("ticketing: %s: compensated %q", s.op, step.name)
	}
	s.steps = nil
	return errors.Join(errs...)
}

package memory

import (
	"sync"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
)

// EventRecorder collects emitted events in order. Tests assert against
// the recorded sequence.
type EventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

// NewEventRecorder returns an empty recorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

// Emit appends the event.
func (r *EventRecorder) Emit(e domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded sequence.
func (r *EventRecorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// Reset discards everything recorded so far.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Clock is a settable moment source for tests and single-process runs.
type Clock struct {
	mu  sync.Mutex
	now domain.Moment
}

// NewClock returns a clock at the given moment.
func NewClock(now domain.Moment) *Clock {
	return &Clock{now: now}
}

// Now returns the current moment.
func (c *Clock) Now() domain.Moment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to the given moment.
func (c *Clock) Set(now domain.Moment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

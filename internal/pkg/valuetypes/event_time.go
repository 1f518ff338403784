package valuetypes

import (
	"fmt"
	"time"
)

// EventTime is a UTC instant that was strictly in the future at the
// moment of validation. Once constructed, the clock keeps moving and the
// instant itself never changes: callers that need "is this still
// upcoming" must re-check against a fresh now.
type EventTime struct {
	t time.Time
}

// NewEventTime validates that t is strictly after now and returns an
// EventTime. now is taken explicitly rather than read from time.Now so
// construction stays pure and testable.
func NewEventTime(t, now time.Time) (EventTime, error) {
	t = t.UTC()
	if !t.After(now.UTC()) {
		return EventTime{}, fmt.Errorf("valuetypes: event time %s is not strictly after %s", t, now)
	}
	return EventTime{t: t}, nil
}

// Time returns the wrapped instant.
func (e EventTime) Time() time.Time { return e.t }

// Until returns the duration from now until the event, which may be
// negative once the event has passed.
func (e EventTime) Until(now time.Time) time.Duration { return e.t.Sub(now) }

func (e EventTime) String() string { return e.t.Format(time.RFC3339) }

/*
sof.go - Statement-of-facts to engine event conversion

PURPOSE:
  Maps logged statement-of-facts entries onto the engine's Event type.
  The default counting classification is derived from the entry kind so
  agents do not have to tag every line; an explicit Status on an entry
  always wins.

DEFAULT CLASSIFICATION:
  weather-stoppage      -> exception (counts in gross, netted back out)
  entry with no TimeUsed -> not-counting (point-in-time marker)
  anything else          -> counting
*/
package charter

import "github.com/mari8x/laytime-engine/laytime"

// DefaultStatus returns the counting classification an entry gets when
// it carries no explicit status.
func DefaultStatus(kind laytime.EventKind, hasTimeUsed bool) laytime.CountingStatus {
	if !hasTimeUsed {
		return laytime.StatusNotCounting
	}
	if kind == laytime.KindWeatherStoppage {
		return laytime.StatusException
	}
	return laytime.StatusCounting
}

// ToEvent converts one statement-of-facts entry to an engine event.
func (e SofEntry) ToEvent() laytime.Event {
	status := DefaultStatus(e.Kind, e.TimeUsed != nil)
	if e.Status != nil {
		status = *e.Status
	}
	return laytime.Event{
		ID:       e.ID,
		At:       e.At.UTC(),
		Kind:     e.Kind,
		TimeUsed: e.TimeUsed,
		Status:   status,
	}
}

// Events converts a port call's statement of facts to engine events in
// recorded order. Normalization (sorting, validation) is the engine's
// job, not this package's.
func (pc PortCall) Events() []laytime.Event {
	events := make([]laytime.Event, len(pc.Entries))
	for i, entry := range pc.Entries {
		events[i] = entry.ToEvent()
	}
	return events
}

// TimelineFor collects the events of every port call under a charter,
// in port-call order. With reversible laytime the pools combine into a
// single timeline; the engine settles them as one account.
func TimelineFor(calls []PortCall) []laytime.Event {
	var events []laytime.Event
	for _, pc := range calls {
		events = append(events, pc.Events()...)
	}
	return events
}

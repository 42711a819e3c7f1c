/*
timeline.go - Statement-of-facts timeline normalization

PURPOSE:
  Turns a raw list of statement-of-facts events into a chronologically
  ordered timeline the exclusion resolver can walk. A calculation run is
  a one-shot computation over a complete, closed timeline - the engine
  never sees an incrementally growing stream.

RULES:
  - Events are sorted by timestamp ascending. Ties keep the recorded
    input order (stable sort), so a simultaneous NOR tender and arrival
    stay in the sequence the agent logged them.
  - An empty input fails with ErrEmptyTimeline; calculation is never
    attempted on nothing.
  - A present-but-negative TimeUsed fails with ErrNegativeDuration.
  - Duplicate event IDs fail with ErrDuplicateEventID.
  - Missing events are NOT fabricated. A sparse timeline (no NOR
    accepted, say) is a valid timeline; downstream stages tolerate it.

SEE ALSO:
  - exclusion.go: Consumes the normalized timeline
*/
package laytime

import (
	"sort"
)

// NormalizeTimeline validates and chronologically orders events. The
// input slice is not modified; a new slice is returned. Timestamps are
// UTC-normalized.
func NormalizeTimeline(events []Event) ([]Event, error) {
	if len(events) == 0 {
		return nil, &TimelineError{Detail: "no events", err: ErrEmptyTimeline}
	}

	seen := make(map[string]struct{}, len(events))
	normalized := make([]Event, len(events))
	for i, e := range events {
		if e.TimeUsed != nil && e.TimeUsed.IsNegative() {
			return nil, &TimelineError{
				EventID: e.ID,
				Detail:  "time used " + e.TimeUsed.String() + " is negative",
				err:     ErrNegativeDuration,
			}
		}
		if e.ID != "" {
			if _, dup := seen[e.ID]; dup {
				return nil, &TimelineError{
					EventID: e.ID,
					Detail:  "id appears more than once",
					err:     ErrDuplicateEventID,
				}
			}
			seen[e.ID] = struct{}{}
		}
		e.At = e.At.UTC()
		normalized[i] = e
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].At.Before(normalized[j].At)
	})

	return normalized, nil
}

// GrossTimeUsed sums the TimeUsed of every event that enters the gross
// laytime account: counting events and exception events. Exception time
// is in the gross figure and netted back out by the exclusion resolver;
// not-counting events never enter the account at all.
func GrossTimeUsed(timeline []Event) Hours {
	gross := ZeroHours()
	for _, e := range timeline {
		if e.TimeUsed == nil {
			continue
		}
		switch e.Status {
		case StatusCounting, StatusException:
			gross = gross.Add(*e.TimeUsed)
		}
	}
	return gross
}

/*
errors.go - Centralized error types for the laytime engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Callers (API or UI layers) should present these as validation messages.

ERROR CATEGORIES:
  1. Terms errors - Invalid charter-party terms
  2. Timeline errors - Malformed statement-of-facts input
  3. Resolution errors - Missing calendar data
  4. Settlement errors - Upstream inconsistency detected at settlement

PROPAGATION POLICY:
  Every error here is a synchronous validation error discovered at the
  boundary of a pure function. None are retryable: the same invalid
  input produces the same error. Nothing is swallowed or silently
  defaulted - in particular, a missing calendar date surfaces as
  ErrUnknownCalendarEntry rather than being assumed a working day,
  because that assumption changes a financial outcome.

USAGE:
  if errors.Is(err, laytime.ErrConflictingExceptionRules) { ... }

  var calErr *laytime.UnknownCalendarEntryError
  if errors.As(err, &calErr) { log.Println(calErr.Date) }
*/
package laytime

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAllowedTime is returned when allowed laytime is not positive.
	ErrInvalidAllowedTime = errors.New("allowed laytime must be positive")

	// ErrInvalidRate is returned when a demurrage or despatch rate is negative.
	ErrInvalidRate = errors.New("rate must be non-negative")

	// ErrConflictingExceptionRules is returned when SHEX and SHINC are both
	// present in a terms rule set.
	ErrConflictingExceptionRules = errors.New("conflicting exception rules")

	// ErrInvalidLaytimeType is returned for an unrecognised laytime type.
	ErrInvalidLaytimeType = errors.New("invalid laytime type")

	// ErrEmptyTimeline is returned when a timeline has no events.
	ErrEmptyTimeline = errors.New("timeline is empty")

	// ErrNegativeDuration is returned when an event carries a negative TimeUsed.
	ErrNegativeDuration = errors.New("negative event duration")

	// ErrDuplicateEventID is returned when two events share an ID.
	ErrDuplicateEventID = errors.New("duplicate event id")

	// ErrUnknownCalendarEntry is returned when an exclusion lookup needs a
	// date the calendar does not cover and AssumeWorking is not set.
	ErrUnknownCalendarEntry = errors.New("date missing from calendar")

	// ErrNegativeNetTime is returned when excluded hours exceed gross hours.
	// This indicates an upstream inconsistency, not a valid settlement.
	ErrNegativeNetTime = errors.New("excluded time exceeds gross time")

	// ErrInvalidCargoRate is returned when an allowed-time derivation is
	// attempted with a non-positive loading or discharging rate.
	ErrInvalidCargoRate = errors.New("cargo handling rate must be positive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TermsError reports which field of the terms failed validation.
type TermsError struct {
	Field  string
	Detail string
	err    error
}

func (e *TermsError) Error() string {
	return fmt.Sprintf("invalid terms: %s: %s", e.Field, e.Detail)
}

func (e *TermsError) Unwrap() error { return e.err }

// TimelineError reports which event broke timeline normalization.
type TimelineError struct {
	EventID string
	Detail  string
	err     error
}

func (e *TimelineError) Error() string {
	if e.EventID == "" {
		return "invalid timeline: " + e.Detail
	}
	return fmt.Sprintf("invalid timeline: event %s: %s", e.EventID, e.Detail)
}

func (e *TimelineError) Unwrap() error { return e.err }

// UnknownCalendarEntryError identifies the date the calendar is missing.
type UnknownCalendarEntryError struct {
	Date time.Time
}

func (e *UnknownCalendarEntryError) Error() string {
	return fmt.Sprintf("date %s missing from calendar", e.Date.Format("2006-01-02"))
}

func (e *UnknownCalendarEntryError) Unwrap() error { return ErrUnknownCalendarEntry }

// NegativeNetTimeError carries the inconsistent gross/excluded pair.
type NegativeNetTimeError struct {
	Gross    Hours
	Excluded Hours
}

func (e *NegativeNetTimeError) Error() string {
	return fmt.Sprintf("excluded time %s exceeds gross time %s", e.Excluded, e.Gross)
}

func (e *NegativeNetTimeError) Unwrap() error { return ErrNegativeNetTime }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// (as opposed to missing configuration such as calendar coverage).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAllowedTime) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrConflictingExceptionRules) ||
		errors.Is(err, ErrInvalidLaytimeType) ||
		errors.Is(err, ErrEmptyTimeline) ||
		errors.Is(err, ErrNegativeDuration) ||
		errors.Is(err, ErrDuplicateEventID) ||
		errors.Is(err, ErrNegativeNetTime) ||
		errors.Is(err, ErrInvalidCargoRate)
}

// IsConfigurationError reports whether the error means the provided
// calendar does not cover the timeline.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnknownCalendarEntry)
}

/*
Package laytime provides the core laytime accounting engine.

PURPOSE:
  This package contains the types and algorithms for event-based laytime
  accounting: given charter-party terms, a statement-of-facts timeline,
  and a calendar of excluded periods, compute net time used against
  allowed time and the resulting demurrage or despatch settlement.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A duration quantity backed by decimal.Decimal
  - Money: A currency amount (never converted between currencies)
  - Event: One statement-of-facts entry on the port timeline
  - Closed enums: LaytimeType, ExceptionRule, EventKind, CountingStatus

DESIGN PRINCIPLES:
  1. Purity: Every operation is a function of its inputs. No module-level
     state, no clock reads, no I/O.
  2. Precision: Uses decimal.Decimal to avoid floating-point errors in
     financial results.
  3. Closed enumerations: Status tags are typed constants, not free-form
     strings, so invalid states are unrepresentable.
  4. Immutability: Events and calendars are value inputs per call.

USAGE:
  terms, err := laytime.ValidateTerms(laytime.Terms{...})
  timeline, err := laytime.NormalizeTimeline(events)
  exclusions, err := laytime.ResolveExclusions(timeline, terms.ExceptionRules, cal)
  result, err := laytime.CalculateSettlement(terms, gross, excluded)

SEE ALSO:
  - terms.go: Charter-party terms and validation
  - timeline.go: Event timeline normalization
  - exclusion.go: Calendar/weather exclusion resolution
  - settlement.go: Demurrage/despatch settlement
*/
package laytime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Duration quantity with decimal precision
// =============================================================================

// Hours is a duration expressed in hours. Laytime is accounted in hours
// because statement-of-facts entries regularly carry fractional durations
// (1.5h shifting, 42.5h loading).
type Hours struct {
	Value decimal.Decimal
}

var (
	secondsPerHour = decimal.NewFromInt(3600)
	hoursPerDay    = decimal.NewFromInt(24)
)

func NewHours(value float64) Hours {
	return Hours{Value: decimal.NewFromFloat(value)}
}

func NewHoursFromInt(value int) Hours {
	return Hours{Value: decimal.NewFromInt(int64(value))}
}

func HoursFromDecimal(d decimal.Decimal) Hours {
	return Hours{Value: d}
}

// HoursFromDuration converts a time.Duration to Hours at second precision.
func HoursFromDuration(d time.Duration) Hours {
	seconds := decimal.NewFromInt(int64(d / time.Second))
	return Hours{Value: seconds.Div(secondsPerHour)}
}

func ZeroHours() Hours { return Hours{Value: decimal.Zero} }

func (h Hours) Add(o Hours) Hours      { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours      { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours             { return Hours{Value: h.Value.Neg()} }
func (h Hours) Abs() Hours             { return Hours{Value: h.Value.Abs()} }
func (h Hours) IsNegative() bool       { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool       { return h.Value.IsPositive() }
func (h Hours) IsZero() bool           { return h.Value.IsZero() }
func (h Hours) Equal(o Hours) bool     { return h.Value.Equal(o.Value) }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool  { return h.Value.LessThan(o.Value) }

// Days returns the value expressed in days (hours / 24).
func (h Hours) Days() decimal.Decimal { return h.Value.Div(hoursPerDay) }

// Duration converts to time.Duration at second precision.
func (h Hours) Duration() time.Duration {
	return time.Duration(h.Value.Mul(secondsPerHour).IntPart()) * time.Second
}

func (h Hours) Float64() float64 {
	f, _ := h.Value.Float64()
	return f
}

func (h Hours) String() string { return h.Value.String() + "h" }

// =============================================================================
// MONEY - Currency amount in charter-party currency
// =============================================================================

// Money is an amount in the charter-party currency. The engine never
// converts currencies; everything stays in the currency the rates carry.
type Money struct {
	Value    decimal.Decimal
	Currency string
}

func NewMoney(value float64, currency string) Money {
	return Money{Value: decimal.NewFromFloat(value), Currency: currency}
}

func MoneyFromDecimal(d decimal.Decimal, currency string) Money {
	return Money{Value: d, Currency: currency}
}

func (m Money) IsNegative() bool    { return m.Value.IsNegative() }
func (m Money) IsZero() bool        { return m.Value.IsZero() }
func (m Money) Equal(o Money) bool  { return m.Value.Equal(o.Value) && m.Currency == o.Currency }
func (m Money) Round(places int32) Money {
	return Money{Value: m.Value.Round(places), Currency: m.Currency}
}

func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

func (m Money) String() string { return m.Value.String() + " " + m.Currency }

// =============================================================================
// CLOSED ENUMERATIONS
// =============================================================================

// LaytimeType states whether load and discharge laytime pools are combined.
type LaytimeType string

const (
	Reversible    LaytimeType = "reversible"
	NonReversible LaytimeType = "non-reversible"
)

func (t LaytimeType) Valid() bool {
	return t == Reversible || t == NonReversible
}

// ExceptionRule is a charter-party calendar exception convention.
type ExceptionRule string

const (
	// RuleSHEX: Sundays and holidays excluded from laytime.
	RuleSHEX ExceptionRule = "shex"
	// RuleSHINC: Sundays and holidays count as laytime.
	RuleSHINC ExceptionRule = "shinc"
	// RuleWWD: weather working days only; weather-affected hours excluded.
	RuleWWD ExceptionRule = "wwd"
)

func (r ExceptionRule) Valid() bool {
	return r == RuleSHEX || r == RuleSHINC || r == RuleWWD
}

// RuleSet is the set of exception rules in force for a charter party.
type RuleSet []ExceptionRule

func (rs RuleSet) Has(rule ExceptionRule) bool {
	for _, r := range rs {
		if r == rule {
			return true
		}
	}
	return false
}

// Conflicting reports whether the set encodes a contradictory state.
// SHEX and SHINC describe opposite treatments of the same days.
func (rs RuleSet) Conflicting() bool {
	return rs.Has(RuleSHEX) && rs.Has(RuleSHINC)
}

// =============================================================================
// EVENT - One statement-of-facts entry on the port timeline
// =============================================================================

// EventKind identifies the operational meaning of a timeline event.
type EventKind string

const (
	KindArrival         EventKind = "arrival"
	KindNORTendered     EventKind = "nor-tendered"
	KindNORAccepted     EventKind = "nor-accepted"
	KindBerthing        EventKind = "berthing"
	KindCommenceOps     EventKind = "commence-ops"
	KindCompleteOps     EventKind = "complete-ops"
	KindSailing         EventKind = "sailing"
	KindWeatherStoppage EventKind = "weather-stoppage"
	KindOther           EventKind = "other"
)

func (k EventKind) Valid() bool {
	switch k {
	case KindArrival, KindNORTendered, KindNORAccepted, KindBerthing,
		KindCommenceOps, KindCompleteOps, KindSailing, KindWeatherStoppage, KindOther:
		return true
	}
	return false
}

// CountingStatus classifies whether an event's TimeUsed counts toward
// gross laytime, is left out of the account entirely, or counts but is
// netted back out as an exception.
type CountingStatus string

const (
	StatusCounting    CountingStatus = "counting"
	StatusNotCounting CountingStatus = "not-counting"
	StatusException   CountingStatus = "exception"
)

func (s CountingStatus) Valid() bool {
	return s == StatusCounting || s == StatusNotCounting || s == StatusException
}

// Event is a single entry on a port-call timeline. Events are immutable
// once created; corrections are new events.
//
// TimeUsed, when present, is the duration attributed to the interval
// ENDING at the event timestamp. A "completed loading 10:00, 42.5h used"
// entry covers the 42.5 hours before 10:00. Point-in-time markers
// (arrival, NOR tender) carry no TimeUsed.
type Event struct {
	ID       string
	At       time.Time // UTC-normalized at the boundary
	Kind     EventKind
	TimeUsed *Hours // nil for point-in-time markers
	Status   CountingStatus
}

// Span returns the interval [start, end] covered by the event's TimeUsed.
// Point-in-time markers return a zero-length span at the timestamp.
func (e Event) Span() (start, end time.Time) {
	end = e.At.UTC()
	if e.TimeUsed == nil {
		return end, end
	}
	return end.Add(-e.TimeUsed.Duration()), end
}

// HoursPtr is a convenience for building events with a duration attached.
func HoursPtr(value float64) *Hours {
	h := NewHours(value)
	return &h
}

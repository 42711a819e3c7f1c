/*
store.go - Persistence interfaces for the charter domain

PURPOSE:
  Defines the interface between the domain and whatever database backs
  it. The engine itself never touches storage; only fixture records,
  statements of facts, calendars, and saved calculations are persisted.

APPEND-ONLY STATEMENTS OF FACTS:
  Statement-of-facts entries are append-only. There is no update or
  delete for an entry: a wrong line is corrected by appending a new one
  and recomputing. This keeps the audit trail honest when a settlement
  is disputed.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - charter/store: In-memory store for tests
*/
package charter

import (
	"context"
	"errors"

	"github.com/mari8x/laytime-engine/laytime"
)

var (
	// ErrCharterNotFound is returned when a referenced charter party
	// does not exist.
	ErrCharterNotFound = errors.New("charter party not found")

	// ErrPortCallNotFound is returned when a referenced port call does
	// not exist.
	ErrPortCallNotFound = errors.New("port call not found")

	// ErrCalendarNotFound is returned when a named calendar does not
	// exist.
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrDuplicateSofEntry is returned when an appended entry reuses an
	// ID already on the call. Corrections are new entries with new IDs.
	ErrDuplicateSofEntry = errors.New("statement-of-facts entry id already used")
)

// Store is the persistence surface the API layer works against.
type Store interface {
	// SaveCharter inserts or replaces a charter party.
	SaveCharter(ctx context.Context, cp CharterParty) error

	// GetCharter returns a charter party, or ErrCharterNotFound.
	GetCharter(ctx context.Context, id string) (CharterParty, error)

	// ListCharters returns all charter parties ordered by creation.
	ListCharters(ctx context.Context) ([]CharterParty, error)

	// SavePortCall inserts or replaces a port call shell (entries are
	// appended separately).
	SavePortCall(ctx context.Context, pc PortCall) error

	// ListPortCalls returns the port calls of a charter in order.
	ListPortCalls(ctx context.Context, charterID string) ([]PortCall, error)

	// AppendSofEntry appends one statement-of-facts line to a call.
	// Append-only: there is no update or delete. Reusing an entry ID
	// returns ErrDuplicateSofEntry.
	AppendSofEntry(ctx context.Context, portCallID string, entry SofEntry) error

	// SaveCalendar stores a named port calendar.
	SaveCalendar(ctx context.Context, name string, cal laytime.Calendar) error

	// GetCalendar returns a named calendar, or ErrCalendarNotFound.
	GetCalendar(ctx context.Context, name string) (laytime.Calendar, error)

	// SaveCalculation records a settlement snapshot.
	SaveCalculation(ctx context.Context, rec CalculationRecord) error

	// ListCalculations returns a charter's saved settlements, newest
	// first.
	ListCalculations(ctx context.Context, charterID string) ([]CalculationRecord, error)
}

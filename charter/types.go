/*
Package charter implements the charter-party domain over the laytime engine.

PURPOSE:
  Holds the fixture-level records a brokerage works with - charter
  parties, port calls, statements of facts - and the conversions that
  feed them into the laytime engine. The engine itself knows nothing
  about vessels or ports; this package does.

KEY CONCEPTS:
  - CharterParty: One fixture with its laytime terms and cargo figures
  - PortCall: One call at a port with its statement of facts
  - SofEntry: One logged line in a statement of facts
  - CalculationRecord: A saved settlement snapshot for the audit trail

SEE ALSO:
  - sof.go: Statement-of-facts to engine event conversion
  - sweep.go: What-if sweeps over cargo quantity
  - store.go: Persistence interfaces
*/
package charter

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mari8x/laytime-engine/laytime"
)

// CharterParty is one fixture: the vessel, the counterparties, and the
// laytime provisions agreed between them.
type CharterParty struct {
	ID         string
	VesselName string
	Charterer  string
	Owner      string

	// Cargo figures used when the allowance is derived from handling
	// rates rather than stated flat.
	CargoQuantityMT   decimal.Decimal
	LoadingRateMT     decimal.Decimal // per day
	DischargingRateMT decimal.Decimal // per day

	Terms laytime.Terms

	CreatedAt time.Time
}

// PortCallRole distinguishes loading calls from discharging calls.
type PortCallRole string

const (
	RoleLoading     PortCallRole = "loading"
	RoleDischarging PortCallRole = "discharging"
)

// PortCall is one call at a port under a charter party, with the
// statement of facts recorded for it.
type PortCall struct {
	ID        string
	CharterID string
	Port      string
	Role      PortCallRole
	Entries   []SofEntry

	CreatedAt time.Time
}

// SofEntry is a single statement-of-facts line as the agent logged it.
// Entries are append-only; a wrong line is corrected by a new line.
type SofEntry struct {
	ID          string
	At          time.Time
	Kind        laytime.EventKind
	Description string
	Remarks     string

	// TimeUsed is the duration attributed to the interval ending at the
	// entry timestamp; nil for point-in-time markers.
	TimeUsed *laytime.Hours

	// Status overrides the default counting classification derived from
	// the entry kind. Nil means "use the default".
	Status *laytime.CountingStatus
}

// CalculationRecord is a saved settlement, kept so both sides of a
// dispute can see exactly what was computed and when.
type CalculationRecord struct {
	ID        string
	CharterID string
	Result    laytime.SettlementResult
	CreatedAt time.Time
}

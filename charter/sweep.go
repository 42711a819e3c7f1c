/*
sweep.go - What-if sweeps over cargo quantity

PURPOSE:
  Recomputes the settlement across a range of cargo quantities, deriving
  the allowance from the fixture's handling rates at each point. Brokers
  use this to see where a fixture flips from despatch to demurrage as
  the stem changes.

CONCURRENCY:
  Each point is an independent pure computation over immutable inputs,
  so callers may fan sweeps out across goroutines if they want; this
  implementation keeps it sequential and deterministic.
*/
package charter

import (
	"github.com/shopspring/decimal"

	"github.com/mari8x/laytime-engine/laytime"
)

// SweepPoint is the outcome of one what-if quantity.
type SweepPoint struct {
	CargoQuantityMT decimal.Decimal
	AllowedTime     laytime.Hours
	Result          laytime.SettlementResult
}

// SweepCargoQuantity recomputes the settlement for each quantity,
// deriving allowed time from the charter's handling rates. The fixture's
// stated allowance is ignored here on purpose: the sweep answers "what
// if the allowance followed the stem".
func SweepCargoQuantity(cp CharterParty, events []laytime.Event, calendar laytime.Calendar, quantities []decimal.Decimal) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(quantities))

	for _, qty := range quantities {
		allowed, err := laytime.AllowedTimeFor(qty, cp.LoadingRateMT, cp.DischargingRateMT, cp.Terms.LaytimeType)
		if err != nil {
			return nil, err
		}

		terms := cp.Terms
		terms.AllowedTime = allowed

		result, err := laytime.Calculate(terms, events, calendar)
		if err != nil {
			return nil, err
		}

		points = append(points, SweepPoint{
			CargoQuantityMT: qty,
			AllowedTime:     allowed,
			Result:          result,
		})
	}

	return points, nil
}

// QuantityRange builds an inclusive arithmetic range of quantities for a
// sweep, e.g. 20,000 to 45,000 step 1,000.
func QuantityRange(from, to, step decimal.Decimal) []decimal.Decimal {
	if !step.IsPositive() || to.LessThan(from) {
		return nil
	}
	var quantities []decimal.Decimal
	for q := from; !q.GreaterThan(to); q = q.Add(step) {
		quantities = append(quantities, q)
	}
	return quantities
}

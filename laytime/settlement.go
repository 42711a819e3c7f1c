/*
settlement.go - Demurrage/despatch settlement

PURPOSE:
  The final stage: compare net time used against allowed time and derive
  the money owed. Over the allowance the owner claims demurrage; under it
  the charterer claims despatch.

ARITHMETIC:
  net  = gross - excluded            (NegativeNetTime if negative)
  diff = net - allowed
  diff > 0:  demurrage = (diff / 24) * demurrage rate per day
  diff <= 0: despatch  = (|diff| / 24) * despatch rate per day

  An exactly-zero diff is a despatch of zero, not an error: nothing is
  owed either way.

ROUNDING:
  None. Currency rounding is a presentation concern left to the caller;
  the result carries full decimal precision.

SEE ALSO:
  - terms.go: ValidateTerms, which should gate the terms passed here
  - exclusion.go: Produces the excluded hours input
*/
package laytime

// SettlementResult is the outcome of one laytime calculation. Computed
// fresh on every call; the engine keeps no state between calls.
type SettlementResult struct {
	AllowedTime    Hours
	GrossTimeUsed  Hours
	ExcludedHours  Hours
	NetTimeUsed    Hours // gross - excluded
	TimeDifference Hours // net - allowed; positive means demurrage
	OnDemurrage    bool
	AmountDue      Money
}

// CalculateSettlement derives the settlement from validated terms and the
// gross/excluded hour totals.
func CalculateSettlement(terms Terms, grossTimeUsed, excludedHours Hours) (SettlementResult, error) {
	net := grossTimeUsed.Sub(excludedHours)
	if net.IsNegative() {
		return SettlementResult{}, &NegativeNetTimeError{
			Gross:    grossTimeUsed,
			Excluded: excludedHours,
		}
	}

	diff := net.Sub(terms.AllowedTime)

	result := SettlementResult{
		AllowedTime:    terms.AllowedTime,
		GrossTimeUsed:  grossTimeUsed,
		ExcludedHours:  excludedHours,
		NetTimeUsed:    net,
		TimeDifference: diff,
	}

	if diff.IsPositive() {
		result.OnDemurrage = true
		result.AmountDue = MoneyFromDecimal(
			diff.Days().Mul(terms.DemurrageRate.Value), terms.Currency)
	} else {
		result.OnDemurrage = false
		result.AmountDue = MoneyFromDecimal(
			diff.Abs().Days().Mul(terms.DespatchRate.Value), terms.Currency)
	}

	return result, nil
}

// Account is a full laytime account: the normalized timeline, every
// exclusion taken against it, and the settlement they produce. This is
// what a statement renders.
type Account struct {
	Timeline   []Event
	Exclusions []ExclusionPeriod
	Result     SettlementResult
}

// BuildAccount runs the whole pipeline and keeps the intermediate
// breakdown: validate the terms, normalize the timeline, resolve
// exclusions, and settle.
func BuildAccount(terms Terms, events []Event, calendar Calendar) (Account, error) {
	validated, err := ValidateTerms(terms)
	if err != nil {
		return Account{}, err
	}

	timeline, err := NormalizeTimeline(events)
	if err != nil {
		return Account{}, err
	}

	exclusions, err := ResolveExclusions(timeline, validated.ExceptionRules, calendar)
	if err != nil {
		return Account{}, err
	}

	result, err := CalculateSettlement(validated, GrossTimeUsed(timeline), TotalExcluded(exclusions))
	if err != nil {
		return Account{}, err
	}

	return Account{Timeline: timeline, Exclusions: exclusions, Result: result}, nil
}

// Calculate runs the whole pipeline in one shot and returns just the
// settlement. This is the entry point host applications usually want.
func Calculate(terms Terms, events []Event, calendar Calendar) (SettlementResult, error) {
	account, err := BuildAccount(terms, events, calendar)
	if err != nil {
		return SettlementResult{}, err
	}
	return account.Result, nil
}

/*
terms.go - Charter-party laytime terms and validation

PURPOSE:
  Defines the Terms value and ValidateTerms, the entry gate of the
  pipeline. Terms carry the allowed laytime, the settlement rates, and
  the exception rule set in force.

VALIDATION RULES:
  - Allowed time must be positive
  - Demurrage and despatch rates must be non-negative (despatch is
    customarily half the demurrage rate, but that is convention, not a
    constraint)
  - SHEX and SHINC cannot both apply
  - A terms value with neither SHEX nor SHINC is normalized to SHINC
    (all time counts) so exactly one primary calendar rule is always
    in force

ALLOWED TIME DERIVATION:
  When a fixture states cargo handling rates instead of a flat allowance,
  AllowedTimeFor derives the allowance:
    reversible:     (load days + discharge days) * 24
    non-reversible: max(load days, discharge days) * 24
  An explicit charter-party allowance always overrides the derivation.

SEE ALSO:
  - settlement.go: Consumes validated terms
  - errors.go: TermsError and sentinels
*/
package laytime

import "github.com/shopspring/decimal"

// currencyPrecision is the rounding applied to normalized rates.
const currencyPrecision = 2

// Terms are the laytime provisions of a charter party.
type Terms struct {
	// AllowedTime is the total laytime granted by the charter party.
	AllowedTime Hours

	// LaytimeType states whether load and discharge pools are combined.
	LaytimeType LaytimeType

	// DemurrageRate is the owner's claim per day over allowed time.
	DemurrageRate Money

	// DespatchRate is the charterer's claim per day saved.
	DespatchRate Money

	// ExceptionRules is the set of calendar conventions in force.
	ExceptionRules RuleSet

	// Currency is the charter-party settlement currency code.
	Currency string
}

// ValidateTerms checks the terms and returns a normalized copy. It has no
// side effects; the input value is never modified.
//
// Normalization:
//   - rates rounded to currency precision
//   - a missing primary calendar rule defaults to SHINC
//   - an empty currency defaults to the rate currency
func ValidateTerms(terms Terms) (Terms, error) {
	if !terms.AllowedTime.IsPositive() {
		return Terms{}, &TermsError{
			Field:  "allowed_time",
			Detail: "must be greater than zero, got " + terms.AllowedTime.String(),
			err:    ErrInvalidAllowedTime,
		}
	}
	if terms.DemurrageRate.IsNegative() {
		return Terms{}, &TermsError{
			Field:  "demurrage_rate",
			Detail: "must be non-negative, got " + terms.DemurrageRate.String(),
			err:    ErrInvalidRate,
		}
	}
	if terms.DespatchRate.IsNegative() {
		return Terms{}, &TermsError{
			Field:  "despatch_rate",
			Detail: "must be non-negative, got " + terms.DespatchRate.String(),
			err:    ErrInvalidRate,
		}
	}
	if terms.LaytimeType != "" && !terms.LaytimeType.Valid() {
		return Terms{}, &TermsError{
			Field:  "laytime_type",
			Detail: "unknown type " + string(terms.LaytimeType),
			err:    ErrInvalidLaytimeType,
		}
	}
	if terms.ExceptionRules.Conflicting() {
		return Terms{}, &TermsError{
			Field:  "exception_rules",
			Detail: "SHEX and SHINC cannot both apply",
			err:    ErrConflictingExceptionRules,
		}
	}

	normalized := terms
	normalized.DemurrageRate = terms.DemurrageRate.Round(currencyPrecision)
	normalized.DespatchRate = terms.DespatchRate.Round(currencyPrecision)

	if normalized.LaytimeType == "" {
		normalized.LaytimeType = Reversible
	}
	if !normalized.ExceptionRules.Has(RuleSHEX) && !normalized.ExceptionRules.Has(RuleSHINC) {
		rules := make(RuleSet, len(terms.ExceptionRules), len(terms.ExceptionRules)+1)
		copy(rules, terms.ExceptionRules)
		normalized.ExceptionRules = append(rules, RuleSHINC)
	}
	if normalized.Currency == "" {
		normalized.Currency = normalized.DemurrageRate.Currency
	}

	return normalized, nil
}

// AllowedTimeFor derives allowed laytime from cargo quantity and handling
// rates (quantity in metric tons, rates in metric tons per day).
func AllowedTimeFor(cargoQuantityMT, loadingRateMT, dischargingRateMT decimal.Decimal, laytimeType LaytimeType) (Hours, error) {
	if !loadingRateMT.IsPositive() || !dischargingRateMT.IsPositive() {
		return ZeroHours(), ErrInvalidCargoRate
	}
	if laytimeType != "" && !laytimeType.Valid() {
		return ZeroHours(), ErrInvalidLaytimeType
	}

	loadingDays := cargoQuantityMT.Div(loadingRateMT)
	dischargingDays := cargoQuantityMT.Div(dischargingRateMT)

	switch laytimeType {
	case NonReversible:
		days := loadingDays
		if dischargingDays.GreaterThan(days) {
			days = dischargingDays
		}
		return HoursFromDecimal(days.Mul(hoursPerDay)), nil
	default: // Reversible or unset
		return HoursFromDecimal(loadingDays.Add(dischargingDays).Mul(hoursPerDay)), nil
	}
}

package laytime

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTerms() Terms {
	return Terms{
		AllowedTime:    NewHours(72),
		LaytimeType:    Reversible,
		DemurrageRate:  NewMoney(15000, "USD"),
		DespatchRate:   NewMoney(7500, "USD"),
		ExceptionRules: RuleSet{RuleSHEX},
		Currency:       "USD",
	}
}

func TestValidateTerms_Valid(t *testing.T) {
	normalized, err := ValidateTerms(validTerms())
	require.NoError(t, err)
	assert.True(t, normalized.AllowedTime.Equal(NewHours(72)))
	assert.Equal(t, Reversible, normalized.LaytimeType)
	assert.Equal(t, "USD", normalized.Currency)
}

func TestValidateTerms_ZeroAllowedTime(t *testing.T) {
	terms := validTerms()
	terms.AllowedTime = ZeroHours()

	_, err := ValidateTerms(terms)
	assert.ErrorIs(t, err, ErrInvalidAllowedTime)
}

func TestValidateTerms_NegativeAllowedTime(t *testing.T) {
	terms := validTerms()
	terms.AllowedTime = NewHours(-10)

	_, err := ValidateTerms(terms)
	assert.ErrorIs(t, err, ErrInvalidAllowedTime)

	var termsErr *TermsError
	require.ErrorAs(t, err, &termsErr)
	assert.Equal(t, "allowed_time", termsErr.Field)
}

func TestValidateTerms_NegativeDemurrageRate(t *testing.T) {
	terms := validTerms()
	terms.DemurrageRate = NewMoney(-1, "USD")

	_, err := ValidateTerms(terms)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestValidateTerms_NegativeDespatchRate(t *testing.T) {
	terms := validTerms()
	terms.DespatchRate = NewMoney(-7500, "USD")

	_, err := ValidateTerms(terms)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestValidateTerms_ZeroRatesAllowed(t *testing.T) {
	// Zero rates are legal: a fixture can simply owe nothing either way.
	terms := validTerms()
	terms.DemurrageRate = NewMoney(0, "USD")
	terms.DespatchRate = NewMoney(0, "USD")

	_, err := ValidateTerms(terms)
	assert.NoError(t, err)
}

func TestValidateTerms_ConflictingRules(t *testing.T) {
	terms := validTerms()
	terms.ExceptionRules = RuleSet{RuleSHEX, RuleSHINC}

	_, err := ValidateTerms(terms)
	assert.ErrorIs(t, err, ErrConflictingExceptionRules)
}

func TestValidateTerms_InvalidLaytimeType(t *testing.T) {
	terms := validTerms()
	terms.LaytimeType = "half-reversible"

	_, err := ValidateTerms(terms)
	assert.ErrorIs(t, err, ErrInvalidLaytimeType)
}

func TestValidateTerms_RatesRoundedToCurrencyPrecision(t *testing.T) {
	terms := validTerms()
	terms.DemurrageRate = NewMoney(15000.005, "USD")

	normalized, err := ValidateTerms(terms)
	require.NoError(t, err)
	assert.True(t, normalized.DemurrageRate.Value.Equal(decimal.NewFromFloat(15000.01)),
		"rate should round to cents, got %s", normalized.DemurrageRate)
}

func TestValidateTerms_DefaultsToSHINC(t *testing.T) {
	// A fixture naming neither SHEX nor SHINC counts all time.
	terms := validTerms()
	terms.ExceptionRules = RuleSet{RuleWWD}

	normalized, err := ValidateTerms(terms)
	require.NoError(t, err)
	assert.True(t, normalized.ExceptionRules.Has(RuleSHINC))
	assert.True(t, normalized.ExceptionRules.Has(RuleWWD))
}

func TestValidateTerms_NoSideEffects(t *testing.T) {
	terms := validTerms()
	terms.ExceptionRules = RuleSet{RuleWWD}

	_, err := ValidateTerms(terms)
	require.NoError(t, err)
	assert.Len(t, terms.ExceptionRules, 1, "input terms must not be modified")
}

func TestAllowedTimeFor_Reversible(t *testing.T) {
	// 32,000 MT at 10,000 MT/day loading + 12,000 MT/day discharging:
	// (3.2 + 2.666...) days combined.
	allowed, err := AllowedTimeFor(
		decimal.NewFromInt(32000),
		decimal.NewFromInt(10000),
		decimal.NewFromInt(12000),
		Reversible,
	)
	require.NoError(t, err)

	expected := decimal.NewFromInt(32000).Div(decimal.NewFromInt(10000)).
		Add(decimal.NewFromInt(32000).Div(decimal.NewFromInt(12000))).
		Mul(decimal.NewFromInt(24))
	assert.True(t, allowed.Value.Equal(expected), "got %s", allowed)
}

func TestAllowedTimeFor_NonReversible(t *testing.T) {
	// Non-reversible takes the slower leg: 24,000/8,000 = 3 days = 72h.
	allowed, err := AllowedTimeFor(
		decimal.NewFromInt(24000),
		decimal.NewFromInt(8000),
		decimal.NewFromInt(12000),
		NonReversible,
	)
	require.NoError(t, err)
	assert.True(t, allowed.Equal(NewHours(72)), "got %s", allowed)
}

func TestAllowedTimeFor_ZeroRate(t *testing.T) {
	_, err := AllowedTimeFor(
		decimal.NewFromInt(24000),
		decimal.Zero,
		decimal.NewFromInt(12000),
		Reversible,
	)
	assert.ErrorIs(t, err, ErrInvalidCargoRate)
}

package laytime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSettlement_Despatch(t *testing.T) {
	// 72h allowed, 54h gross, 24h excluded: 30h net, 42h under, so
	// despatch of (42/24) * 7,500 = 13,125.
	result, err := CalculateSettlement(validTerms(), NewHours(54), NewHours(24))
	require.NoError(t, err)

	assert.True(t, result.NetTimeUsed.Equal(NewHours(30)))
	assert.True(t, result.TimeDifference.Equal(NewHours(-42)))
	assert.False(t, result.OnDemurrage)
	assert.True(t, result.AmountDue.Equal(NewMoney(13125, "USD")), "got %s", result.AmountDue)
}

func TestCalculateSettlement_Demurrage(t *testing.T) {
	// Same terms, 100h gross, nothing excluded: 28h over, so demurrage
	// of (28/24) * 15,000 = 17,500.
	result, err := CalculateSettlement(validTerms(), NewHours(100), ZeroHours())
	require.NoError(t, err)

	assert.True(t, result.NetTimeUsed.Equal(NewHours(100)))
	assert.True(t, result.TimeDifference.Equal(NewHours(28)))
	assert.True(t, result.OnDemurrage)
	assert.True(t, result.AmountDue.Equal(NewMoney(17500, "USD")), "got %s", result.AmountDue)
}

func TestCalculateSettlement_ExactlyOnAllowance(t *testing.T) {
	// Net equal to allowed is a despatch of zero, not an error.
	result, err := CalculateSettlement(validTerms(), NewHours(72), ZeroHours())
	require.NoError(t, err)

	assert.True(t, result.TimeDifference.IsZero())
	assert.False(t, result.OnDemurrage)
	assert.True(t, result.AmountDue.IsZero())
}

func TestCalculateSettlement_NegativeNetTime(t *testing.T) {
	_, err := CalculateSettlement(validTerms(), NewHours(10), NewHours(24))
	assert.ErrorIs(t, err, ErrNegativeNetTime)

	var netErr *NegativeNetTimeError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Gross.Equal(NewHours(10)))
	assert.True(t, netErr.Excluded.Equal(NewHours(24)))
}

func TestCalculateSettlement_Idempotent(t *testing.T) {
	first, err := CalculateSettlement(validTerms(), NewHours(54), NewHours(24))
	require.NoError(t, err)
	second, err := CalculateSettlement(validTerms(), NewHours(54), NewHours(24))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculateSettlement_NoRoundingInsideEngine(t *testing.T) {
	// 1h over at 15,000/day is 625 exactly; 1h over at 10,000/day is
	// 416.666..., which must come back unrounded.
	terms := validTerms()
	terms.DemurrageRate = NewMoney(10000, "USD")

	result, err := CalculateSettlement(terms, NewHours(73), ZeroHours())
	require.NoError(t, err)
	assert.False(t, result.AmountDue.Value.Equal(result.AmountDue.Value.Round(2)),
		"engine must not round; got %s", result.AmountDue)
}

func TestCalculateSettlement_MonotonicOnDemurrage(t *testing.T) {
	// More gross time never decreases the demurrage owed.
	terms := validTerms()
	prev, err := CalculateSettlement(terms, NewHours(80), ZeroHours())
	require.NoError(t, err)

	for gross := 81; gross <= 120; gross += 7 {
		result, err := CalculateSettlement(terms, NewHoursFromInt(gross), ZeroHours())
		require.NoError(t, err)
		assert.True(t, result.OnDemurrage)
		assert.False(t, result.AmountDue.Value.LessThan(prev.AmountDue.Value))
		prev = result
	}
}

func TestCalculateSettlement_MonotonicUnderAllowance(t *testing.T) {
	// More gross time never increases the despatch owed while still
	// under the allowance.
	terms := validTerms()
	prev, err := CalculateSettlement(terms, NewHours(10), ZeroHours())
	require.NoError(t, err)

	for gross := 15; gross <= 72; gross += 7 {
		result, err := CalculateSettlement(terms, NewHoursFromInt(gross), ZeroHours())
		require.NoError(t, err)
		assert.False(t, result.OnDemurrage)
		assert.False(t, result.AmountDue.Value.GreaterThan(prev.AmountDue.Value))
		prev = result
	}
}

func TestCalculateSettlement_ZeroCrossing(t *testing.T) {
	// For any terms there is a net exactly at the allowance where
	// nothing is owed.
	for _, allowed := range []float64{24, 72, 100.5} {
		terms := validTerms()
		terms.AllowedTime = NewHours(allowed)

		result, err := CalculateSettlement(terms, NewHours(allowed), ZeroHours())
		require.NoError(t, err)
		assert.True(t, result.AmountDue.IsZero(), "allowed %v: got %s", allowed, result.AmountDue)
		assert.False(t, result.OnDemurrage)
	}
}

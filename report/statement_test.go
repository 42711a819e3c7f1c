package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/laytime"
)

func testStatement() Statement {
	return Statement{
		Charter: charter.CharterParty{
			ID:         "cp-2026-014",
			VesselName: "MV Coral Wave",
			Charterer:  "Pacific Grain Co",
			Owner:      "Meridian Shipping",
			Terms: laytime.Terms{
				AllowedTime:    laytime.NewHours(72),
				LaytimeType:    laytime.Reversible,
				DemurrageRate:  laytime.NewMoney(15000, "USD"),
				DespatchRate:   laytime.NewMoney(7500, "USD"),
				ExceptionRules: laytime.RuleSet{laytime.RuleSHEX},
				Currency:       "USD",
			},
		},
		Timeline: []laytime.Event{
			{
				ID:     "ev-1",
				At:     time.Date(2026, 2, 9, 6, 0, 0, 0, time.UTC),
				Kind:   laytime.KindNORTendered,
				Status: laytime.StatusNotCounting,
			},
			{
				ID:       "ev-2",
				At:       time.Date(2026, 2, 12, 10, 30, 0, 0, time.UTC),
				Kind:     laytime.KindCompleteOps,
				TimeUsed: laytime.HoursPtr(43),
				Status:   laytime.StatusCounting,
			},
		},
		Exclusions: []laytime.ExclusionPeriod{
			{
				EventID: "ev-2",
				From:    time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
				To:      time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
				Hours:   laytime.NewHours(24),
				Cause:   laytime.CauseCalendar,
			},
		},
		Result: laytime.SettlementResult{
			AllowedTime:    laytime.NewHours(72),
			GrossTimeUsed:  laytime.NewHours(54),
			ExcludedHours:  laytime.NewHours(24),
			NetTimeUsed:    laytime.NewHours(30),
			TimeDifference: laytime.NewHours(-42),
			OnDemurrage:    false,
			AmountDue:      laytime.Money{Value: decimal.NewFromInt(13125), Currency: "USD"},
		},
		GeneratedAt: time.Date(2026, 2, 12, 11, 0, 0, 0, time.UTC),
	}
}

func TestBuildStatementPDF(t *testing.T) {
	data, err := BuildStatementPDF(testStatement())
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}

func TestBuildStatementXLSX(t *testing.T) {
	data, err := BuildStatementXLSX(testStatement())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"summary", "timeline", "exclusions"}, f.GetSheetList())

	vessel, err := f.GetCellValue("summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "MV Coral Wave", vessel)

	outcome, err := f.GetCellValue("summary", "B12")
	require.NoError(t, err)
	assert.Equal(t, "Despatch payable by owner to charterer", outcome)

	kind, err := f.GetCellValue("timeline", "B3")
	require.NoError(t, err)
	assert.Equal(t, string(laytime.KindCompleteOps), kind)

	cause, err := f.GetCellValue("exclusions", "D2")
	require.NoError(t, err)
	assert.Equal(t, "calendar", cause)
}

func TestVerdictDemurrage(t *testing.T) {
	stmt := testStatement()
	stmt.Result.OnDemurrage = true

	assert.Equal(t, "Demurrage payable by charterer to owner", stmt.Verdict())
}

package laytime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workingWeek returns a calendar covering Feb 9-14 2026 (Mon-Sat) as
// working days. Sundays need no entry.
func workingWeek() Calendar {
	cal := NewCalendar()
	for day := 9; day <= 14; day++ {
		cal = cal.MarkWorking(at(day, 0, 0))
	}
	return cal
}

func TestResolveExclusions_ExceptionEventExcludedFully(t *testing.T) {
	// A logged weather stoppage with its own duration is excluded in
	// full, whatever the calendar says.
	timeline := []Event{
		{ID: "wx", At: at(11, 8, 0), Kind: KindWeatherStoppage, TimeUsed: HoursPtr(5.5), Status: StatusException},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHINC}, NewCalendar())
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].Hours.Equal(NewHours(5.5)))
	assert.Equal(t, CauseWeather, periods[0].Cause)
	assert.Equal(t, "wx", periods[0].EventID)
}

func TestResolveExclusions_ExceptionCauseByKind(t *testing.T) {
	timeline := []Event{
		{ID: "breakdown", At: at(11, 8, 0), Kind: KindOther, TimeUsed: HoursPtr(2), Status: StatusException},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHINC}, NewCalendar())
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, CauseCalendar, periods[0].Cause)
}

func TestResolveExclusions_SHINCExcludesNothing(t *testing.T) {
	// Feb 8 2026 is a Sunday; under SHINC it counts anyway.
	timeline := []Event{
		{ID: "ops", At: at(9, 12, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(48), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHINC}, NewCalendar())
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestResolveExclusions_SHEXExcludesSundayByWeekday(t *testing.T) {
	// Ops run Sat Feb 7 12:00 -> Mon Feb 9 12:00. The Sunday inside is
	// excluded without any calendar entry for it.
	cal := NewCalendar().MarkWorking(at(7, 0, 0)).MarkWorking(at(9, 0, 0))
	timeline := []Event{
		{ID: "ops", At: at(9, 12, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(48), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHEX}, cal)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].Hours.Equal(NewHours(24)), "got %s", periods[0].Hours)
	assert.Equal(t, at(8, 0, 0), periods[0].From)
	assert.Equal(t, at(9, 0, 0), periods[0].To)
	assert.Equal(t, CauseCalendar, periods[0].Cause)
}

func TestResolveExclusions_SHEXHolidayMidSpan(t *testing.T) {
	// Loading Tue Feb 10 15:30 -> Thu Feb 12 10:30 with Wed Feb 11 a
	// holiday: exactly the 24 holiday hours come out.
	cal := workingWeek().MarkHoliday(at(11, 0, 0))
	timeline := []Event{
		{ID: "load", At: at(12, 10, 30), Kind: KindCompleteOps, TimeUsed: HoursPtr(43), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHEX}, cal)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].Hours.Equal(NewHours(24)))
}

func TestResolveExclusions_SHEXBoundaryStraddle(t *testing.T) {
	// A span ending 06:00 into a holiday loses only those 6 hours, not
	// the whole event. Exclusion is at hour granularity.
	cal := workingWeek().MarkHoliday(at(12, 0, 0))
	timeline := []Event{
		{ID: "ops", At: at(12, 6, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(18), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHEX}, cal)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].Hours.Equal(NewHours(6)), "only the holiday fraction counts, got %s", periods[0].Hours)
	assert.Equal(t, at(12, 0, 0), periods[0].From)
	assert.Equal(t, at(12, 6, 0), periods[0].To)
}

func TestResolveExclusions_UnknownCalendarEntry(t *testing.T) {
	// No entry for Feb 10 and no AssumeWorking: the resolver refuses to
	// guess, because the guess changes a financial outcome.
	timeline := []Event{
		{ID: "ops", At: at(10, 18, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(6), Status: StatusCounting},
	}

	_, err := ResolveExclusions(timeline, RuleSet{RuleSHEX}, NewCalendar())
	assert.ErrorIs(t, err, ErrUnknownCalendarEntry)

	var calErr *UnknownCalendarEntryError
	require.ErrorAs(t, err, &calErr)
	assert.Equal(t, at(10, 0, 0), calErr.Date)
}

func TestResolveExclusions_AssumeWorking(t *testing.T) {
	cal := NewCalendar()
	cal.AssumeWorking = true
	timeline := []Event{
		{ID: "ops", At: at(10, 18, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(6), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHEX}, cal)
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestResolveExclusions_WWDOverlap(t *testing.T) {
	// Weather 02:00-05:00 overlaps ops 00:00-12:00 by 3 hours.
	cal := workingWeek().AddWeather(at(11, 2, 0), at(11, 5, 0))
	timeline := []Event{
		{ID: "ops", At: at(11, 12, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(12), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleWWD}, cal)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].Hours.Equal(NewHours(3)))
	assert.Equal(t, CauseWeather, periods[0].Cause)
}

func TestResolveExclusions_WWDOutsideSpan(t *testing.T) {
	cal := workingWeek().AddWeather(at(13, 2, 0), at(13, 5, 0))
	timeline := []Event{
		{ID: "ops", At: at(11, 12, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(12), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleWWD}, cal)
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestResolveExclusions_WeatherInsideHolidayNotDoubleCounted(t *testing.T) {
	// SHEX + WWD: weather during an excluded holiday must not subtract
	// the same hours twice.
	cal := workingWeek().MarkHoliday(at(11, 0, 0)).AddWeather(at(11, 2, 0), at(11, 5, 0))
	timeline := []Event{
		{ID: "load", At: at(12, 10, 30), Kind: KindCompleteOps, TimeUsed: HoursPtr(43), Status: StatusCounting},
	}

	periods, err := ResolveExclusions(timeline, RuleSet{RuleSHEX, RuleWWD}, cal)
	require.NoError(t, err)
	assert.True(t, TotalExcluded(periods).Equal(NewHours(24)),
		"weather inside the holiday adds nothing, got %s", TotalExcluded(periods))
}

func TestResolveExclusions_ExcludedNeverExceedsGross(t *testing.T) {
	// Whatever the calendar throws at a timeline, exclusions stay within
	// gross time used.
	cal := NewCalendar()
	cal.AssumeWorking = true
	for day := 7; day <= 14; day++ {
		cal = cal.MarkHoliday(at(day, 0, 0))
	}
	cal = cal.AddWeather(at(7, 0, 0), at(15, 0, 0))

	timeline := []Event{
		{ID: "a", At: at(10, 14, 0), Kind: KindBerthing, TimeUsed: HoursPtr(6), Status: StatusCounting},
		{ID: "b", At: at(12, 10, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(42.5), Status: StatusCounting},
		{ID: "c", At: at(12, 13, 0), Kind: KindWeatherStoppage, TimeUsed: HoursPtr(3), Status: StatusException},
	}

	for _, rules := range []RuleSet{{RuleSHEX}, {RuleWWD}, {RuleSHEX, RuleWWD}, {RuleSHINC}} {
		periods, err := ResolveExclusions(timeline, rules, cal)
		require.NoError(t, err)

		excluded := TotalExcluded(periods)
		gross := GrossTimeUsed(timeline)
		assert.False(t, excluded.IsNegative())
		assert.False(t, excluded.GreaterThan(gross),
			"rules %v: excluded %s > gross %s", rules, excluded, gross)
	}
}

func TestResolveExclusions_Deterministic(t *testing.T) {
	cal := workingWeek().MarkHoliday(at(11, 0, 0)).AddWeather(at(12, 2, 0), at(12, 4, 0))
	timeline := []Event{
		{ID: "load", At: at(12, 10, 30), Kind: KindCompleteOps, TimeUsed: HoursPtr(43), Status: StatusCounting},
	}

	first, err := ResolveExclusions(timeline, RuleSet{RuleSHEX, RuleWWD}, cal)
	require.NoError(t, err)
	second, err := ResolveExclusions(timeline, RuleSet{RuleSHEX, RuleWWD}, cal)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalendar_StatusOn(t *testing.T) {
	cal := NewCalendar().MarkHoliday(at(11, 0, 0)).MarkWorking(at(12, 0, 0))

	status, err := cal.StatusOn(at(11, 15, 30))
	require.NoError(t, err)
	assert.Equal(t, DayHoliday, status, "time-of-day is irrelevant to day status")

	status, err = cal.StatusOn(at(12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, DayWorking, status)

	// Feb 8 2026 is a Sunday.
	status, err = cal.StatusOn(at(8, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, DayHoliday, status)

	_, err = cal.StatusOn(at(13, 0, 0))
	assert.ErrorIs(t, err, ErrUnknownCalendarEntry)
}

func TestCalendar_MarkOnZeroValue(t *testing.T) {
	var cal Calendar
	cal = cal.MarkHoliday(at(11, 0, 0)).MarkWorking(at(12, 0, 0))

	status, err := cal.StatusOn(at(11, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, DayHoliday, status)

	status, err = cal.StatusOn(at(12, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, DayWorking, status)
}

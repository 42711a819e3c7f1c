package laytime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, min int) time.Time {
	return time.Date(2026, time.February, day, hour, min, 0, 0, time.UTC)
}

func TestNormalizeTimeline_Empty(t *testing.T) {
	_, err := NormalizeTimeline(nil)
	assert.ErrorIs(t, err, ErrEmptyTimeline)

	_, err = NormalizeTimeline([]Event{})
	assert.ErrorIs(t, err, ErrEmptyTimeline)
}

func TestNormalizeTimeline_SortsByTimestamp(t *testing.T) {
	events := []Event{
		{ID: "sailing", At: at(12, 12, 0), Kind: KindSailing, Status: StatusNotCounting},
		{ID: "arrival", At: at(10, 6, 0), Kind: KindArrival, Status: StatusNotCounting},
		{ID: "berthing", At: at(10, 14, 0), Kind: KindBerthing, TimeUsed: HoursPtr(6), Status: StatusCounting},
	}

	timeline, err := NormalizeTimeline(events)
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, "arrival", timeline[0].ID)
	assert.Equal(t, "berthing", timeline[1].ID)
	assert.Equal(t, "sailing", timeline[2].ID)
}

func TestNormalizeTimeline_StableOnTies(t *testing.T) {
	// Simultaneous NOR tender and arrival keep the recorded sequence.
	events := []Event{
		{ID: "arrival", At: at(10, 6, 0), Kind: KindArrival, Status: StatusNotCounting},
		{ID: "nor", At: at(10, 6, 0), Kind: KindNORTendered, Status: StatusNotCounting},
	}

	timeline, err := NormalizeTimeline(events)
	require.NoError(t, err)
	assert.Equal(t, "arrival", timeline[0].ID)
	assert.Equal(t, "nor", timeline[1].ID)
}

func TestNormalizeTimeline_NegativeDuration(t *testing.T) {
	events := []Event{
		{ID: "bad", At: at(10, 14, 0), Kind: KindBerthing, TimeUsed: HoursPtr(-3), Status: StatusCounting},
	}

	_, err := NormalizeTimeline(events)
	assert.ErrorIs(t, err, ErrNegativeDuration)

	var tlErr *TimelineError
	require.ErrorAs(t, err, &tlErr)
	assert.Equal(t, "bad", tlErr.EventID)
}

func TestNormalizeTimeline_DuplicateID(t *testing.T) {
	events := []Event{
		{ID: "e1", At: at(10, 6, 0), Kind: KindArrival, Status: StatusNotCounting},
		{ID: "e1", At: at(10, 8, 0), Kind: KindBerthing, Status: StatusNotCounting},
	}

	_, err := NormalizeTimeline(events)
	assert.ErrorIs(t, err, ErrDuplicateEventID)
}

func TestNormalizeTimeline_DoesNotFabricateEvents(t *testing.T) {
	// A sparse timeline (no NOR accepted) is valid as-is.
	events := []Event{
		{ID: "arrival", At: at(10, 6, 0), Kind: KindArrival, Status: StatusNotCounting},
		{ID: "complete", At: at(12, 10, 0), Kind: KindCompleteOps, TimeUsed: HoursPtr(42.5), Status: StatusCounting},
	}

	timeline, err := NormalizeTimeline(events)
	require.NoError(t, err)
	assert.Len(t, timeline, 2)
}

func TestNormalizeTimeline_InputNotModified(t *testing.T) {
	events := []Event{
		{ID: "b", At: at(11, 0, 0), Kind: KindBerthing, Status: StatusNotCounting},
		{ID: "a", At: at(10, 0, 0), Kind: KindArrival, Status: StatusNotCounting},
	}

	_, err := NormalizeTimeline(events)
	require.NoError(t, err)
	assert.Equal(t, "b", events[0].ID, "input slice must keep its order")
}

func TestGrossTimeUsed(t *testing.T) {
	timeline := []Event{
		{ID: "marker", At: at(10, 6, 0), Kind: KindArrival, Status: StatusNotCounting},
		{ID: "count", At: at(10, 14, 0), Kind: KindBerthing, TimeUsed: HoursPtr(6), Status: StatusCounting},
		{ID: "exc", At: at(11, 2, 0), Kind: KindWeatherStoppage, TimeUsed: HoursPtr(4), Status: StatusException},
		{ID: "skip", At: at(11, 8, 0), Kind: KindOther, TimeUsed: HoursPtr(3), Status: StatusNotCounting},
	}

	// Counting and exception time enter gross; not-counting never does.
	assert.True(t, GrossTimeUsed(timeline).Equal(NewHours(10)))
}

func TestEventSpan_EndsAtTimestamp(t *testing.T) {
	// "6h used" on a 14:00 berthing entry covers 08:00-14:00.
	e := Event{ID: "b", At: at(10, 14, 0), Kind: KindBerthing, TimeUsed: HoursPtr(6), Status: StatusCounting}

	start, end := e.Span()
	assert.Equal(t, at(10, 8, 0), start)
	assert.Equal(t, at(10, 14, 0), end)
}

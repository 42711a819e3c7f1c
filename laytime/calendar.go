/*
calendar.go - Port calendar of excluded days and weather periods

PURPOSE:
  The calendar tells the exclusion resolver which days at the port are
  holidays and which hours were lost to weather. It is a value input
  passed per calculation - the engine holds no calendar state.

MISSING DATES:
  A date the calendar does not cover is NOT silently a working day.
  "Not present = working" materially changes a financial outcome, so it
  must be an explicit choice: set AssumeWorking and the resolver treats
  uncovered dates as working; leave it unset and the resolver fails with
  ErrUnknownCalendarEntry naming the date.

SUNDAYS:
  Under SHEX, Sundays are excluded by the weekday itself; no calendar
  entry is consulted for them.
*/
package laytime

import "time"

// DayStatus is the calendar classification of a single date.
type DayStatus string

const (
	DayWorking DayStatus = "working"
	DayHoliday DayStatus = "holiday"
)

// WeatherPeriod is an externally-flagged span of weather-affected time.
type WeatherPeriod struct {
	From time.Time
	To   time.Time
}

// dateKey is the map key format for calendar days.
const dateKey = "2006-01-02"

// Calendar is the per-port exception calendar for one calculation run.
type Calendar struct {
	// Days maps "YYYY-MM-DD" (UTC) to the day's classification.
	Days map[string]DayStatus

	// Weather lists weather-affected periods for WWD resolution.
	Weather []WeatherPeriod

	// AssumeWorking, when set, treats dates absent from Days as working
	// days instead of failing. Off by default.
	AssumeWorking bool
}

// NewCalendar returns an empty calendar with no assumptions.
func NewCalendar() Calendar {
	return Calendar{Days: make(map[string]DayStatus)}
}

// MarkHoliday records a date as a holiday. Safe on a zero-value
// Calendar.
func (c Calendar) MarkHoliday(day time.Time) Calendar {
	return c.mark(day, DayHoliday)
}

// MarkWorking records a date as a working day. Safe on a zero-value
// Calendar.
func (c Calendar) MarkWorking(day time.Time) Calendar {
	return c.mark(day, DayWorking)
}

func (c Calendar) mark(day time.Time, status DayStatus) Calendar {
	if c.Days == nil {
		c.Days = make(map[string]DayStatus)
	}
	c.Days[day.UTC().Format(dateKey)] = status
	return c
}

// AddWeather records a weather-affected period.
func (c Calendar) AddWeather(from, to time.Time) Calendar {
	c.Weather = append(c.Weather, WeatherPeriod{From: from.UTC(), To: to.UTC()})
	return c
}

// StatusOn returns the classification of a date. Sundays are holidays by
// weekday without a lookup. Other absent dates are working only when
// AssumeWorking is set; otherwise an UnknownCalendarEntryError results.
func (c Calendar) StatusOn(day time.Time) (DayStatus, error) {
	day = day.UTC()
	if day.Weekday() == time.Sunday {
		return DayHoliday, nil
	}
	if status, ok := c.Days[day.Format(dateKey)]; ok {
		return status, nil
	}
	if c.AssumeWorking {
		return DayWorking, nil
	}
	return "", &UnknownCalendarEntryError{Date: day}
}

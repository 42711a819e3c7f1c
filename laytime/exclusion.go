/*
exclusion.go - Exclusion resolution against calendar and weather

PURPOSE:
  Computes how many hours inside a normalized timeline must be
  subtracted from gross time used, per the exception rules in force.

RESOLUTION RULES:
  Exception events:  an event whose status is "exception" contributes its
                     full TimeUsed regardless of calendar. This models ad
                     hoc exceptions such as a logged weather stoppage with
                     its own recorded duration.
  Counting + SHEX:   any portion of the event span falling inside a
                     Sunday or holiday is subtracted. Exclusion is
                     computed at hour granularity: a span straddling the
                     boundary of an excluded day loses only the fraction
                     inside that day, never the whole event.
  Counting + SHINC:  nothing is subtracted.
  Counting + WWD:    weather-affected periods overlapping the span are
                     subtracted. Portions already excluded by SHEX are
                     not subtracted twice.

DETERMINISM:
  Same timeline, rules, and calendar in - same exclusions out. No
  randomness, no clock reads beyond the inputs.

FAILURE:
  A calendar lookup for an uncovered date fails with
  ErrUnknownCalendarEntry unless the calendar sets AssumeWorking.

SEE ALSO:
  - calendar.go: Day classification and the AssumeWorking choice
  - settlement.go: Consumes the total excluded hours
*/
package laytime

import "time"

// ExclusionCause tags why a period was removed from gross time.
type ExclusionCause string

const (
	// CauseCalendar marks weekend/holiday exclusions and logged
	// non-weather exceptions.
	CauseCalendar ExclusionCause = "calendar"
	// CauseWeather marks weather-working-day and weather-stoppage
	// exclusions.
	CauseWeather ExclusionCause = "weather"
)

// ExclusionPeriod is a computed span of hours removed from gross time.
// Derived per calculation run, never persisted by the engine.
type ExclusionPeriod struct {
	EventID string
	From    time.Time
	To      time.Time
	Hours   Hours
	Cause   ExclusionCause
}

// ResolveExclusions walks a normalized timeline and returns every span
// that must be netted out of gross time used.
func ResolveExclusions(timeline []Event, rules RuleSet, calendar Calendar) ([]ExclusionPeriod, error) {
	var exclusions []ExclusionPeriod

	for _, e := range timeline {
		if e.TimeUsed == nil || e.TimeUsed.IsZero() {
			continue
		}

		switch e.Status {
		case StatusException:
			start, end := e.Span()
			exclusions = append(exclusions, ExclusionPeriod{
				EventID: e.ID,
				From:    start,
				To:      end,
				Hours:   *e.TimeUsed,
				Cause:   exceptionCause(e.Kind),
			})

		case StatusCounting:
			periods, err := resolveCountingEvent(e, rules, calendar)
			if err != nil {
				return nil, err
			}
			exclusions = append(exclusions, periods...)
		}
	}

	return exclusions, nil
}

// TotalExcluded sums the hours across resolved exclusion periods.
func TotalExcluded(periods []ExclusionPeriod) Hours {
	total := ZeroHours()
	for _, p := range periods {
		total = total.Add(p.Hours)
	}
	return total
}

func exceptionCause(kind EventKind) ExclusionCause {
	if kind == KindWeatherStoppage {
		return CauseWeather
	}
	return CauseCalendar
}

// interval is a half-open [from, to) span used during resolution.
type interval struct {
	from, to time.Time
}

func (iv interval) empty() bool { return !iv.from.Before(iv.to) }

func resolveCountingEvent(e Event, rules RuleSet, calendar Calendar) ([]ExclusionPeriod, error) {
	start, end := e.Span()
	if !start.Before(end) {
		return nil, nil
	}

	var periods []ExclusionPeriod
	var calendarIvs []interval

	if rules.Has(RuleSHEX) {
		ivs, err := excludedDaySegments(start, end, calendar)
		if err != nil {
			return nil, err
		}
		calendarIvs = ivs
		for _, iv := range ivs {
			periods = append(periods, ExclusionPeriod{
				EventID: e.ID,
				From:    iv.from,
				To:      iv.to,
				Hours:   HoursFromDuration(iv.to.Sub(iv.from)),
				Cause:   CauseCalendar,
			})
		}
	}

	if rules.Has(RuleWWD) {
		carved := calendarIvs
		for _, w := range calendar.Weather {
			overlap := intersect(interval{start, end}, interval{w.From.UTC(), w.To.UTC()})
			if overlap.empty() {
				continue
			}
			// Hours already excluded as Sundays/holidays, or by an
			// earlier weather period, must not be counted twice.
			for _, iv := range subtract(overlap, carved) {
				periods = append(periods, ExclusionPeriod{
					EventID: e.ID,
					From:    iv.from,
					To:      iv.to,
					Hours:   HoursFromDuration(iv.to.Sub(iv.from)),
					Cause:   CauseWeather,
				})
				carved = append(carved, iv)
			}
		}
	}

	return periods, nil
}

// excludedDaySegments returns the portions of [start, end) that fall on
// excluded calendar days, one segment per day.
func excludedDaySegments(start, end time.Time, calendar Calendar) ([]interval, error) {
	var segments []interval

	day := startOfDay(start)
	for day.Before(end) {
		next := day.Add(24 * time.Hour)
		seg := intersect(interval{start, end}, interval{day, next})
		if !seg.empty() {
			status, err := calendar.StatusOn(day)
			if err != nil {
				return nil, err
			}
			if status == DayHoliday {
				segments = append(segments, seg)
			}
		}
		day = next
	}

	return segments, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func intersect(a, b interval) interval {
	from := a.from
	if b.from.After(from) {
		from = b.from
	}
	to := a.to
	if b.to.Before(to) {
		to = b.to
	}
	return interval{from, to}
}

// subtract removes every interval in cuts from iv and returns the
// remaining pieces. Cuts may arrive in any order; each one splits the
// surviving pieces independently.
func subtract(iv interval, cuts []interval) []interval {
	remaining := []interval{iv}
	for _, cut := range cuts {
		var next []interval
		for _, r := range remaining {
			overlap := intersect(r, cut)
			if overlap.empty() {
				next = append(next, r)
				continue
			}
			if r.from.Before(overlap.from) {
				next = append(next, interval{r.from, overlap.from})
			}
			if overlap.to.Before(r.to) {
				next = append(next, interval{overlap.to, r.to})
			}
		}
		remaining = next
	}
	out := remaining[:0]
	for _, r := range remaining {
		if !r.empty() {
			out = append(out, r)
		}
	}
	return out
}

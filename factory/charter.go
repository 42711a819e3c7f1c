/*
Package factory provides JSON to Go charter-party conversion.

PURPOSE:
  Converts JSON charter definitions into charter.CharterParty values and
  laytime.Calendar values. This enables fixture configuration without
  code changes - the ops desk can define terms in JSON, and the factory
  produces validated Go structs. The store persists the same JSON
  documents, so one schema serves configuration and storage.

JSON SCHEMA:
  {
    "id": "cp-2026-014",
    "vessel_name": "MV Coral Wave",
    "charterer": "Pacific Grain Co",
    "owner": "Meridian Shipping",
    "cargo_quantity_mt": 32000,
    "loading_rate_mt": 10000,
    "discharging_rate_mt": 12000,
    "terms": {
      "allowed_time_hours": 72,
      "laytime_type": "reversible",
      "demurrage_rate_per_day": 15000,
      "despatch_rate_per_day": 7500,
      "exception_rules": ["shex"],
      "currency": "USD"
    }
  }

DEFAULTS:
  - despatch rate omitted: half the demurrage rate (market convention)
  - laytime type omitted: reversible
  - allowed time omitted with cargo figures present: derived from the
    handling rates
  - currency omitted: USD

SEE ALSO:
  - charter/types.go: Target domain types
  - laytime/terms.go: Validation applied after conversion
*/
package factory

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/laytime"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CharterJSON is the JSON representation of a charter party.
type CharterJSON struct {
	ID                string    `json:"id"`
	VesselName        string    `json:"vessel_name"`
	Charterer         string    `json:"charterer,omitempty"`
	Owner             string    `json:"owner,omitempty"`
	CargoQuantityMT   float64   `json:"cargo_quantity_mt,omitempty"`
	LoadingRateMT     float64   `json:"loading_rate_mt,omitempty"`
	DischargingRateMT float64   `json:"discharging_rate_mt,omitempty"`
	Terms             TermsJSON `json:"terms"`
}

// TermsJSON is the JSON representation of laytime terms.
type TermsJSON struct {
	AllowedTimeHours    float64  `json:"allowed_time_hours,omitempty"`
	LaytimeType         string   `json:"laytime_type,omitempty"`
	DemurrageRatePerDay float64  `json:"demurrage_rate_per_day"`
	DespatchRatePerDay  *float64 `json:"despatch_rate_per_day,omitempty"`
	ExceptionRules      []string `json:"exception_rules,omitempty"`
	Currency            string   `json:"currency,omitempty"`
}

// CalendarJSON is the JSON representation of a port calendar.
type CalendarJSON struct {
	Holidays      []string      `json:"holidays,omitempty"`     // "2026-02-11"
	WorkingDays   []string      `json:"working_days,omitempty"` // explicit entries
	Weather       []WeatherJSON `json:"weather,omitempty"`
	AssumeWorking bool          `json:"assume_working,omitempty"`
}

// WeatherJSON is one weather-affected period.
type WeatherJSON struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// =============================================================================
// CHARTER FACTORY
// =============================================================================

// CharterFactory converts JSON charter definitions to domain values.
type CharterFactory struct{}

// NewCharterFactory creates a new charter factory.
func NewCharterFactory() *CharterFactory {
	return &CharterFactory{}
}

// ParseCharter parses and validates a charter definition.
func (f *CharterFactory) ParseCharter(raw string) (charter.CharterParty, error) {
	var doc CharterJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return charter.CharterParty{}, fmt.Errorf("invalid charter JSON: %w", err)
	}
	return f.FromJSON(doc)
}

// FromJSON converts an already-decoded document, applying defaults and
// running terms validation.
func (f *CharterFactory) FromJSON(doc CharterJSON) (charter.CharterParty, error) {
	if doc.ID == "" {
		return charter.CharterParty{}, fmt.Errorf("charter id is required")
	}

	terms, err := f.termsFromJSON(doc)
	if err != nil {
		return charter.CharterParty{}, err
	}

	cp := charter.CharterParty{
		ID:                doc.ID,
		VesselName:        doc.VesselName,
		Charterer:         doc.Charterer,
		Owner:             doc.Owner,
		CargoQuantityMT:   decimal.NewFromFloat(doc.CargoQuantityMT),
		LoadingRateMT:     decimal.NewFromFloat(doc.LoadingRateMT),
		DischargingRateMT: decimal.NewFromFloat(doc.DischargingRateMT),
		Terms:             terms,
	}
	return cp, nil
}

func (f *CharterFactory) termsFromJSON(doc CharterJSON) (laytime.Terms, error) {
	tj := doc.Terms

	currency := tj.Currency
	if currency == "" {
		currency = "USD"
	}

	despatch := tj.DemurrageRatePerDay / 2 // market convention: half demurrage
	if tj.DespatchRatePerDay != nil {
		despatch = *tj.DespatchRatePerDay
	}

	rules := make(laytime.RuleSet, 0, len(tj.ExceptionRules))
	for _, r := range tj.ExceptionRules {
		rule := laytime.ExceptionRule(r)
		if !rule.Valid() {
			return laytime.Terms{}, fmt.Errorf("unknown exception rule %q", r)
		}
		rules = append(rules, rule)
	}

	allowed := laytime.NewHours(tj.AllowedTimeHours)
	laytimeType := laytime.LaytimeType(tj.LaytimeType)
	if tj.AllowedTimeHours == 0 && doc.CargoQuantityMT > 0 {
		// No flat allowance stated: derive it from the handling rates.
		derived, err := laytime.AllowedTimeFor(
			decimal.NewFromFloat(doc.CargoQuantityMT),
			decimal.NewFromFloat(doc.LoadingRateMT),
			decimal.NewFromFloat(doc.DischargingRateMT),
			laytimeType,
		)
		if err != nil {
			return laytime.Terms{}, fmt.Errorf("deriving allowed time: %w", err)
		}
		allowed = derived
	}

	terms := laytime.Terms{
		AllowedTime:    allowed,
		LaytimeType:    laytimeType,
		DemurrageRate:  laytime.NewMoney(tj.DemurrageRatePerDay, currency),
		DespatchRate:   laytime.NewMoney(despatch, currency),
		ExceptionRules: rules,
		Currency:       currency,
	}
	return laytime.ValidateTerms(terms)
}

// =============================================================================
// CALENDAR FACTORY
// =============================================================================

// ParseCalendar parses a calendar definition.
func (f *CharterFactory) ParseCalendar(raw string) (laytime.Calendar, error) {
	var doc CalendarJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return laytime.Calendar{}, fmt.Errorf("invalid calendar JSON: %w", err)
	}
	return f.CalendarFromJSON(doc)
}

// CalendarFromJSON converts an already-decoded calendar document.
func (f *CharterFactory) CalendarFromJSON(doc CalendarJSON) (laytime.Calendar, error) {
	cal := laytime.NewCalendar()
	cal.AssumeWorking = doc.AssumeWorking

	for _, d := range doc.Holidays {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			return laytime.Calendar{}, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		cal = cal.MarkHoliday(day)
	}
	for _, d := range doc.WorkingDays {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			return laytime.Calendar{}, fmt.Errorf("invalid working date %q: %w", d, err)
		}
		cal = cal.MarkWorking(day)
	}
	for _, w := range doc.Weather {
		if !w.From.Before(w.To) {
			return laytime.Calendar{}, fmt.Errorf("weather period end %s not after start %s", w.To, w.From)
		}
		cal = cal.AddWeather(w.From, w.To)
	}
	return cal, nil
}

// CalendarToJSON converts a calendar back to its JSON document form for
// storage. Date lists come out sorted so the document is stable across
// conversions.
func CalendarToJSON(cal laytime.Calendar) CalendarJSON {
	doc := CalendarJSON{AssumeWorking: cal.AssumeWorking}
	days := make([]string, 0, len(cal.Days))
	for day := range cal.Days {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		switch cal.Days[day] {
		case laytime.DayHoliday:
			doc.Holidays = append(doc.Holidays, day)
		case laytime.DayWorking:
			doc.WorkingDays = append(doc.WorkingDays, day)
		}
	}
	for _, w := range cal.Weather {
		doc.Weather = append(doc.Weather, WeatherJSON{From: w.From, To: w.To})
	}
	return doc
}

// CharterToJSON converts a charter party back to its JSON document form
// for storage.
func CharterToJSON(cp charter.CharterParty) CharterJSON {
	qty, _ := cp.CargoQuantityMT.Float64()
	load, _ := cp.LoadingRateMT.Float64()
	discharge, _ := cp.DischargingRateMT.Float64()

	rules := make([]string, len(cp.Terms.ExceptionRules))
	for i, r := range cp.Terms.ExceptionRules {
		rules[i] = string(r)
	}

	despatch := cp.Terms.DespatchRate.Float64()
	return CharterJSON{
		ID:                cp.ID,
		VesselName:        cp.VesselName,
		Charterer:         cp.Charterer,
		Owner:             cp.Owner,
		CargoQuantityMT:   qty,
		LoadingRateMT:     load,
		DischargingRateMT: discharge,
		Terms: TermsJSON{
			AllowedTimeHours:    cp.Terms.AllowedTime.Float64(),
			LaytimeType:         string(cp.Terms.LaytimeType),
			DemurrageRatePerDay: cp.Terms.DemurrageRate.Float64(),
			DespatchRatePerDay:  &despatch,
			ExceptionRules:      rules,
			Currency:            cp.Terms.Currency,
		},
	}
}

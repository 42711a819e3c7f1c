/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Charter:
    CharterDTO, CreateCharterRequest (wraps factory.CharterJSON)

  Port calls / statements of facts:
    PortCallDTO, CreatePortCallRequest, SofEntryDTO, AppendSofEntryRequest

  Calculation:
    CalculateRequest, SettlementDTO, ExclusionDTO, CalculationDTO

  Sweep:
    SweepRequest, SweepPointDTO

  Calendars / clauses / scenarios:
    SaveCalendarRequest, ClauseDTO, ScenarioDTO

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  them through Handler.validate before touching the domain.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/charter.go: CharterJSON, CalendarJSON document types
*/
package api

import (
	"time"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/factory"
	"github.com/mari8x/laytime-engine/laytime"
)

// =============================================================================
// CHARTER TYPES
// =============================================================================

// CharterDTO represents a charter party in API responses.
type CharterDTO struct {
	ID                string   `json:"id"`
	VesselName        string   `json:"vessel_name"`
	Charterer         string   `json:"charterer,omitempty"`
	Owner             string   `json:"owner,omitempty"`
	CargoQuantityMT   float64  `json:"cargo_quantity_mt,omitempty"`
	LoadingRateMT     float64  `json:"loading_rate_mt,omitempty"`
	DischargingRateMT float64  `json:"discharging_rate_mt,omitempty"`
	AllowedTimeHours  float64  `json:"allowed_time_hours"`
	LaytimeType       string   `json:"laytime_type"`
	DemurrageRate     float64  `json:"demurrage_rate_per_day"`
	DespatchRate      float64  `json:"despatch_rate_per_day"`
	ExceptionRules    []string `json:"exception_rules"`
	Currency          string   `json:"currency"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// CreateCharterRequest is the request to create or replace a charter
// party. The body is the same JSON document the factory and the store
// use.
type CreateCharterRequest struct {
	factory.CharterJSON
}

// =============================================================================
// PORT CALL TYPES
// =============================================================================

// PortCallDTO represents a port call with its statement of facts.
type PortCallDTO struct {
	ID        string        `json:"id"`
	CharterID string        `json:"charter_id"`
	Port      string        `json:"port"`
	Role      string        `json:"role"`
	Entries   []SofEntryDTO `json:"entries"`
	CreatedAt string        `json:"created_at,omitempty"`
}

// CreatePortCallRequest is the request to open a port call.
type CreatePortCallRequest struct {
	ID   string `json:"id" validate:"required"`
	Port string `json:"port" validate:"required"`
	Role string `json:"role" validate:"required,oneof=loading discharging"`
}

// SofEntryDTO represents one statement-of-facts line.
type SofEntryDTO struct {
	ID             string   `json:"id"`
	At             string   `json:"at"`
	Kind           string   `json:"kind"`
	Description    string   `json:"description,omitempty"`
	Remarks        string   `json:"remarks,omitempty"`
	TimeUsedHours  *float64 `json:"time_used_hours,omitempty"`
	CountingStatus string   `json:"counting_status"`
}

// AppendSofEntryRequest is the request to append a statement-of-facts
// line. TimeUsedHours covers the interval ending at the timestamp; omit
// it for point-in-time markers. CountingStatus omitted means "derive
// from the kind".
type AppendSofEntryRequest struct {
	ID             string    `json:"id" validate:"required"`
	At             time.Time `json:"at" validate:"required"`
	Kind           string    `json:"kind" validate:"required,oneof=arrival nor-tendered nor-accepted berthing commence-ops complete-ops sailing weather-stoppage other"`
	Description    string    `json:"description,omitempty"`
	Remarks        string    `json:"remarks,omitempty"`
	TimeUsedHours  *float64  `json:"time_used_hours,omitempty" validate:"omitempty,gte=0"`
	CountingStatus string    `json:"counting_status,omitempty" validate:"omitempty,oneof=counting not-counting exception"`
}

// =============================================================================
// CALCULATION TYPES
// =============================================================================

// CalculateRequest selects the calendar a calculation runs against.
// Exactly one of CalendarName or Calendar is used; both empty means an
// empty calendar. AssumeWorking treats dates the calendar does not list
// as working days instead of failing the calculation.
type CalculateRequest struct {
	CalendarName  string                `json:"calendar_name,omitempty"`
	Calendar      *factory.CalendarJSON `json:"calendar,omitempty"`
	AssumeWorking bool                  `json:"assume_working,omitempty"`
}

// SettlementDTO represents a settlement result.
type SettlementDTO struct {
	AllowedTimeHours   float64 `json:"allowed_time_hours"`
	GrossTimeUsedHours float64 `json:"gross_time_used_hours"`
	ExcludedHours      float64 `json:"excluded_hours"`
	NetTimeUsedHours   float64 `json:"net_time_used_hours"`
	TimeDifference     float64 `json:"time_difference_hours"`
	OnDemurrage        bool    `json:"on_demurrage"`
	AmountDue          float64 `json:"amount_due"`
	Currency           string  `json:"currency"`
}

// ExclusionDTO represents one excluded span in a calculation response.
type ExclusionDTO struct {
	EventID string  `json:"event_id"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Hours   float64 `json:"hours"`
	Cause   string  `json:"cause"`
}

// CalculationDTO is the full calculation response: the settlement plus
// the breakdown that produced it.
type CalculationDTO struct {
	ID         string         `json:"id"`
	CharterID  string         `json:"charter_id"`
	Result     SettlementDTO  `json:"result"`
	Timeline   []SofEntryDTO  `json:"timeline,omitempty"`
	Exclusions []ExclusionDTO `json:"exclusions,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
}

// =============================================================================
// SWEEP TYPES
// =============================================================================

// SweepRequest asks for a cargo-quantity what-if: the settlement is
// recomputed for each quantity step with the allowance derived from the
// charter's handling rates.
type SweepRequest struct {
	FromMT float64 `json:"from_mt" validate:"required,gt=0"`
	ToMT   float64 `json:"to_mt" validate:"required,gtefield=FromMT"`
	StepMT float64 `json:"step_mt" validate:"required,gt=0"`

	CalendarName  string                `json:"calendar_name,omitempty"`
	Calendar      *factory.CalendarJSON `json:"calendar,omitempty"`
	AssumeWorking bool                  `json:"assume_working,omitempty"`
}

// SweepPointDTO is one point of a sweep response.
type SweepPointDTO struct {
	CargoQuantityMT  float64       `json:"cargo_quantity_mt"`
	AllowedTimeHours float64       `json:"allowed_time_hours"`
	Result           SettlementDTO `json:"result"`
}

// =============================================================================
// CALENDAR, CLAUSE, SCENARIO TYPES
// =============================================================================

// SaveCalendarRequest stores a named calendar document.
type SaveCalendarRequest struct {
	factory.CalendarJSON
}

// ClauseDTO represents a standard charter-party clause.
type ClauseDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
	Category    string `json:"category"`
	Rule        string `json:"rule,omitempty"`
}

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toCharterDTO(cp charter.CharterParty) CharterDTO {
	doc := factory.CharterToJSON(cp)
	dto := CharterDTO{
		ID:                doc.ID,
		VesselName:        doc.VesselName,
		Charterer:         doc.Charterer,
		Owner:             doc.Owner,
		CargoQuantityMT:   doc.CargoQuantityMT,
		LoadingRateMT:     doc.LoadingRateMT,
		DischargingRateMT: doc.DischargingRateMT,
		AllowedTimeHours:  doc.Terms.AllowedTimeHours,
		LaytimeType:       doc.Terms.LaytimeType,
		DemurrageRate:     doc.Terms.DemurrageRatePerDay,
		ExceptionRules:    doc.Terms.ExceptionRules,
		Currency:          doc.Terms.Currency,
	}
	if doc.Terms.DespatchRatePerDay != nil {
		dto.DespatchRate = *doc.Terms.DespatchRatePerDay
	}
	if !cp.CreatedAt.IsZero() {
		dto.CreatedAt = cp.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPortCallDTO(pc charter.PortCall) PortCallDTO {
	entries := make([]SofEntryDTO, 0, len(pc.Entries))
	for _, e := range pc.Entries {
		entries = append(entries, toSofEntryDTO(e))
	}
	dto := PortCallDTO{
		ID:        pc.ID,
		CharterID: pc.CharterID,
		Port:      pc.Port,
		Role:      string(pc.Role),
		Entries:   entries,
	}
	if !pc.CreatedAt.IsZero() {
		dto.CreatedAt = pc.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toSofEntryDTO(e charter.SofEntry) SofEntryDTO {
	dto := SofEntryDTO{
		ID:          e.ID,
		At:          e.At.UTC().Format(time.RFC3339),
		Kind:        string(e.Kind),
		Description: e.Description,
		Remarks:     e.Remarks,
	}
	if e.TimeUsed != nil {
		v := e.TimeUsed.Float64()
		dto.TimeUsedHours = &v
	}
	dto.CountingStatus = string(e.ToEvent().Status)
	return dto
}

func toEventDTO(ev laytime.Event) SofEntryDTO {
	dto := SofEntryDTO{
		ID:             ev.ID,
		At:             ev.At.Format(time.RFC3339),
		Kind:           string(ev.Kind),
		CountingStatus: string(ev.Status),
	}
	if ev.TimeUsed != nil {
		v := ev.TimeUsed.Float64()
		dto.TimeUsedHours = &v
	}
	return dto
}

func toSettlementDTO(r laytime.SettlementResult) SettlementDTO {
	return SettlementDTO{
		AllowedTimeHours:   r.AllowedTime.Float64(),
		GrossTimeUsedHours: r.GrossTimeUsed.Float64(),
		ExcludedHours:      r.ExcludedHours.Float64(),
		NetTimeUsedHours:   r.NetTimeUsed.Float64(),
		TimeDifference:     r.TimeDifference.Float64(),
		OnDemurrage:        r.OnDemurrage,
		AmountDue:          r.AmountDue.Float64(),
		Currency:           r.AmountDue.Currency,
	}
}

func toExclusionDTOs(periods []laytime.ExclusionPeriod) []ExclusionDTO {
	dtos := make([]ExclusionDTO, 0, len(periods))
	for _, p := range periods {
		dtos = append(dtos, ExclusionDTO{
			EventID: p.EventID,
			From:    p.From.Format(time.RFC3339),
			To:      p.To.Format(time.RFC3339),
			Hours:   p.Hours.Float64(),
			Cause:   string(p.Cause),
		})
	}
	return dtos
}

func toClauseDTO(c charter.Clause) ClauseDTO {
	return ClauseDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Text:        c.Text,
		Category:    c.Category,
		Rule:        string(c.Rule),
	}
}

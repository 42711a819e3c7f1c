/*
handlers.go - HTTP API handlers for the laytime engine

PURPOSE:
  Exposes the laytime engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Charters:
    GET    /api/charters                    List charter parties
    POST   /api/charters                    Create charter party from JSON
    GET    /api/charters/{id}               Get charter party

  Port calls / statements of facts:
    GET    /api/charters/{id}/portcalls     List port calls with entries
    POST   /api/charters/{id}/portcalls     Open a port call
    POST   /api/charters/{id}/portcalls/{callID}/sof  Append SOF line

  Calculation:
    POST   /api/charters/{id}/calculate     Run settlement, persist snapshot
    GET    /api/charters/{id}/calculations  Saved settlements, newest first
    POST   /api/charters/{id}/sweep         Cargo-quantity what-if

  Reports:
    POST   /api/charters/{id}/report.pdf    Settlement statement PDF
    POST   /api/charters/{id}/report.xlsx   Settlement statement XLSX

  Calendars / clauses:
    GET    /api/calendars/{name}            Get named calendar
    PUT    /api/calendars/{name}            Store named calendar
    GET    /api/clauses                     Clause library
    GET    /api/clauses/{id}                One clause

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (go-playground/validator on request DTOs)
  3. Call domain logic (factory, engine, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid terms or timeline
  - 404: Charter, port call, calendar, or clause not found
  - 409: Statement-of-facts entry ID reused
  - 422: Calculation needs a calendar date the calendar does not list
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/factory"
	"github.com/mari8x/laytime-engine/laytime"
	"github.com/mari8x/laytime-engine/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for the API handlers.
type Handler struct {
	Store    charter.Store
	factory  *factory.CharterFactory
	validate *validator.Validate

	currentScenario string
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store charter.Store) *Handler {
	return &Handler{
		Store:    store,
		factory:  factory.NewCharterFactory(),
		validate: validator.New(),
	}
}

// =============================================================================
// CHARTER ENDPOINTS
// =============================================================================

// ListCharters returns all charter parties.
// GET /api/charters
func (h *Handler) ListCharters(w http.ResponseWriter, r *http.Request) {
	charters, err := h.Store.ListCharters(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list charters", err)
		return
	}

	dtos := make([]CharterDTO, 0, len(charters))
	for _, cp := range charters {
		dtos = append(dtos, toCharterDTO(cp))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCharter creates or replaces a charter party.
// POST /api/charters
func (h *Handler) CreateCharter(w http.ResponseWriter, r *http.Request) {
	var req CreateCharterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cp, err := h.factory.FromJSON(req.CharterJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid charter definition", err)
		return
	}
	cp.CreatedAt = time.Now().UTC()

	if err := h.Store.SaveCharter(r.Context(), cp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save charter", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCharterDTO(cp))
}

// GetCharter returns a charter party.
// GET /api/charters/{id}
func (h *Handler) GetCharter(w http.ResponseWriter, r *http.Request) {
	cp, err := h.Store.GetCharter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get charter", err)
		return
	}
	writeJSON(w, http.StatusOK, toCharterDTO(cp))
}

// =============================================================================
// PORT CALL ENDPOINTS
// =============================================================================

// ListPortCalls returns a charter's port calls with their statements of
// facts.
// GET /api/charters/{id}/portcalls
func (h *Handler) ListPortCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := h.Store.ListPortCalls(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to list port calls", err)
		return
	}

	dtos := make([]PortCallDTO, 0, len(calls))
	for _, pc := range calls {
		dtos = append(dtos, toPortCallDTO(pc))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePortCall opens a port call under a charter.
// POST /api/charters/{id}/portcalls
func (h *Handler) CreatePortCall(w http.ResponseWriter, r *http.Request) {
	var req CreatePortCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	pc := charter.PortCall{
		ID:        req.ID,
		CharterID: chi.URLParam(r, "id"),
		Port:      req.Port,
		Role:      charter.PortCallRole(req.Role),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Store.SavePortCall(r.Context(), pc); err != nil {
		writeDomainError(w, "Failed to save port call", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPortCallDTO(pc))
}

// AppendSofEntry appends one statement-of-facts line to a port call.
// Append-only: corrections are new lines, never edits.
// POST /api/charters/{id}/portcalls/{callID}/sof
func (h *Handler) AppendSofEntry(w http.ResponseWriter, r *http.Request) {
	var req AppendSofEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	entry := charter.SofEntry{
		ID:          req.ID,
		At:          req.At.UTC(),
		Kind:        laytime.EventKind(req.Kind),
		Description: req.Description,
		Remarks:     req.Remarks,
	}
	if req.TimeUsedHours != nil {
		entry.TimeUsed = laytime.HoursPtr(*req.TimeUsedHours)
	}
	if req.CountingStatus != "" {
		status := laytime.CountingStatus(req.CountingStatus)
		entry.Status = &status
	}

	if err := h.Store.AppendSofEntry(r.Context(), chi.URLParam(r, "callID"), entry); err != nil {
		writeDomainError(w, "Failed to append entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSofEntryDTO(entry))
}

// =============================================================================
// CALCULATION ENDPOINTS
// =============================================================================

// Calculate runs the settlement pipeline for a charter and persists the
// result as a calculation record.
// POST /api/charters/{id}/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	charterID := chi.URLParam(r, "id")
	account, err := h.buildAccount(r, charterID, req)
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}

	rec := charter.CalculationRecord{
		ID:        fmt.Sprintf("calc-%d", time.Now().UnixNano()),
		CharterID: charterID,
		Result:    account.Result,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveCalculation(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calculation", err)
		return
	}

	timeline := make([]SofEntryDTO, 0, len(account.Timeline))
	for _, ev := range account.Timeline {
		timeline = append(timeline, toEventDTO(ev))
	}

	writeJSON(w, http.StatusOK, CalculationDTO{
		ID:         rec.ID,
		CharterID:  charterID,
		Result:     toSettlementDTO(account.Result),
		Timeline:   timeline,
		Exclusions: toExclusionDTOs(account.Exclusions),
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	})
}

// ListCalculations returns a charter's saved settlements, newest first.
// GET /api/charters/{id}/calculations
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListCalculations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to list calculations", err)
		return
	}

	dtos := make([]CalculationDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, CalculationDTO{
			ID:        rec.ID,
			CharterID: rec.CharterID,
			Result:    toSettlementDTO(rec.Result),
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Sweep recomputes the settlement across a cargo-quantity range with the
// allowance derived from the charter's handling rates.
// POST /api/charters/{id}/sweep
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	charterID := chi.URLParam(r, "id")
	cp, err := h.Store.GetCharter(r.Context(), charterID)
	if err != nil {
		writeDomainError(w, "Failed to get charter", err)
		return
	}

	calls, err := h.Store.ListPortCalls(r.Context(), charterID)
	if err != nil {
		writeDomainError(w, "Failed to list port calls", err)
		return
	}

	calendar, err := h.resolveCalendar(r, CalculateRequest{
		CalendarName:  req.CalendarName,
		Calendar:      req.Calendar,
		AssumeWorking: req.AssumeWorking,
	})
	if err != nil {
		writeDomainError(w, "Failed to resolve calendar", err)
		return
	}

	quantities := charter.QuantityRange(
		decimal.NewFromFloat(req.FromMT),
		decimal.NewFromFloat(req.ToMT),
		decimal.NewFromFloat(req.StepMT),
	)

	points, err := charter.SweepCargoQuantity(cp, charter.TimelineFor(calls), calendar, quantities)
	if err != nil {
		writeDomainError(w, "Sweep failed", err)
		return
	}

	dtos := make([]SweepPointDTO, 0, len(points))
	for _, p := range points {
		qty, _ := p.CargoQuantityMT.Float64()
		dtos = append(dtos, SweepPointDTO{
			CargoQuantityMT:  qty,
			AllowedTimeHours: p.AllowedTime.Float64(),
			Result:           toSettlementDTO(p.Result),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

// ReportPDF renders the settlement statement as a PDF.
// POST /api/charters/{id}/report.pdf
func (h *Handler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	stmt, err := h.buildStatement(r)
	if err != nil {
		writeDomainError(w, "Failed to build statement", err)
		return
	}

	data, err := report.BuildStatementPDF(stmt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="laytime-%s.pdf"`, stmt.Charter.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ReportXLSX renders the settlement statement as an XLSX workbook.
// POST /api/charters/{id}/report.xlsx
func (h *Handler) ReportXLSX(w http.ResponseWriter, r *http.Request) {
	stmt, err := h.buildStatement(r)
	if err != nil {
		writeDomainError(w, "Failed to build statement", err)
		return
	}

	data, err := report.BuildStatementXLSX(stmt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render XLSX", err)
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="laytime-%s.xlsx"`, stmt.Charter.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) buildStatement(r *http.Request) (report.Statement, error) {
	var req CalculateRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		return report.Statement{}, err
	}

	charterID := chi.URLParam(r, "id")
	cp, err := h.Store.GetCharter(r.Context(), charterID)
	if err != nil {
		return report.Statement{}, err
	}

	account, err := h.buildAccount(r, charterID, req)
	if err != nil {
		return report.Statement{}, err
	}

	return report.Statement{
		Charter:     cp,
		Timeline:    account.Timeline,
		Exclusions:  account.Exclusions,
		Result:      account.Result,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// =============================================================================
// CALENDAR ENDPOINTS
// =============================================================================

// GetCalendar returns a named calendar document.
// GET /api/calendars/{name}
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.Store.GetCalendar(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeDomainError(w, "Failed to get calendar", err)
		return
	}
	writeJSON(w, http.StatusOK, factory.CalendarToJSON(cal))
}

// SaveCalendar stores a named calendar document.
// PUT /api/calendars/{name}
func (h *Handler) SaveCalendar(w http.ResponseWriter, r *http.Request) {
	var req SaveCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cal, err := h.factory.CalendarFromJSON(req.CalendarJSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calendar definition", err)
		return
	}

	if err := h.Store.SaveCalendar(r.Context(), chi.URLParam(r, "name"), cal); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, factory.CalendarToJSON(cal))
}

// =============================================================================
// CLAUSE ENDPOINTS
// =============================================================================

// ListClauses returns the standard clause library.
// GET /api/clauses
func (h *Handler) ListClauses(w http.ResponseWriter, r *http.Request) {
	clauses := charter.StandardClauses()
	dtos := make([]ClauseDTO, 0, len(clauses))
	for _, c := range clauses {
		dtos = append(dtos, toClauseDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetClause returns one clause by ID.
// GET /api/clauses/{id}
func (h *Handler) GetClause(w http.ResponseWriter, r *http.Request) {
	clause := charter.FindClause(chi.URLParam(r, "id"))
	if clause == nil {
		writeError(w, http.StatusNotFound, "Clause not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toClauseDTO(*clause))
}

// =============================================================================
// HELPERS
// =============================================================================

// buildAccount assembles the full laytime account for a charter: terms
// from the fixture, timeline from its statements of facts, calendar from
// the request.
func (h *Handler) buildAccount(r *http.Request, charterID string, req CalculateRequest) (laytime.Account, error) {
	ctx := r.Context()

	cp, err := h.Store.GetCharter(ctx, charterID)
	if err != nil {
		return laytime.Account{}, err
	}

	calls, err := h.Store.ListPortCalls(ctx, charterID)
	if err != nil {
		return laytime.Account{}, err
	}

	calendar, err := h.resolveCalendar(r, req)
	if err != nil {
		return laytime.Account{}, err
	}

	return laytime.BuildAccount(cp.Terms, charter.TimelineFor(calls), calendar)
}

// resolveCalendar picks the calendar a calculation runs against: a named
// stored calendar, an inline document, or an empty one. AssumeWorking on
// the request overrides the stored flag for this run only.
func (h *Handler) resolveCalendar(r *http.Request, req CalculateRequest) (laytime.Calendar, error) {
	var cal laytime.Calendar
	switch {
	case req.Calendar != nil:
		parsed, err := h.factory.CalendarFromJSON(*req.Calendar)
		if err != nil {
			return laytime.Calendar{}, err
		}
		cal = parsed
	case req.CalendarName != "":
		stored, err := h.Store.GetCalendar(r.Context(), req.CalendarName)
		if err != nil {
			return laytime.Calendar{}, err
		}
		cal = stored
	default:
		cal = laytime.NewCalendar()
	}

	if req.AssumeWorking {
		cal.AssumeWorking = true
	}
	return cal, nil
}

// decodeOptionalBody decodes a JSON body into dst, treating an empty
// body as the zero value.
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	code := ""

	switch {
	case errors.Is(err, charter.ErrCharterNotFound),
		errors.Is(err, charter.ErrPortCallNotFound),
		errors.Is(err, charter.ErrCalendarNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, charter.ErrDuplicateSofEntry):
		status = http.StatusConflict
		code = "duplicate_entry"
	case laytime.IsConfigurationError(err):
		// The calculation hit a date the calendar does not list. The
		// caller retries with the date filled in or assume_working set.
		status = http.StatusUnprocessableEntity
		code = "calendar_incomplete"
	case laytime.IsClientError(err):
		status = http.StatusBadRequest
		code = "invalid_input"
	}

	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

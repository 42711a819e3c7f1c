/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates a charter party,
	port calls, a statement of facts, and a calendar that demonstrate a
	specific settlement outcome.

AVAILABLE SCENARIOS:

	singapore-loading:   Loading under SHEX with a mid-span holiday,
	                     vessel earns despatch
	rotterdam-discharge: Slow discharge overrunning the allowance,
	                     vessel on demurrage

HOW SCENARIOS WORK:
 1. Reset the store (when the backend supports it)
 2. Create the charter party via the factory document
 3. Open port calls
 4. Append statement-of-facts entries
 5. Store the port calendar

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "singapore-loading"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers and error mapping
  - factory/charter.go: Charter JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/factory"
	"github.com/mari8x/laytime-engine/laytime"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "singapore-loading",
		Name:        "Singapore Loading",
		Description: "72h SHEX fixture, 54h gross with a holiday inside the loading span; despatch 13,125 USD",
		Category:    "despatch",
	},
	{
		ID:          "rotterdam-discharge",
		Name:        "Rotterdam Discharge",
		Description: "Slow discharge using 100h against 72h allowed; demurrage 17,500 USD",
		Category:    "demurrage",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the store and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	ctx := r.Context()
	if resettable, ok := h.Store.(interface{ Reset(context.Context) error }); ok {
		if err := resettable.Reset(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
			return
		}
	}

	var err error
	switch req.ScenarioID {
	case "singapore-loading":
		err = h.loadSingaporeLoading(ctx)
	case "rotterdam-discharge":
		err = h.loadRotterdamDischarge(ctx)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadSingaporeLoading builds the loading call the engine's own tests
// settle: NOR accepted 08:00 Feb 10 2026, loading completed 10:30
// Feb 12, sailed 12:30. 54 gross hours, Wed Feb 11 a public holiday,
// SHEX terms. Calculating against the "singapore" calendar yields 30h
// net against 72h allowed and 13,125 USD despatch.
func (h *Handler) loadSingaporeLoading(ctx context.Context) error {
	cp, err := h.factory.FromJSON(factory.CharterJSON{
		ID:                "cp-2026-014",
		VesselName:        "MV Coral Wave",
		Charterer:         "Pacific Grain Co",
		Owner:             "Meridian Shipping",
		CargoQuantityMT:   32000,
		LoadingRateMT:     10000,
		DischargingRateMT: 12000,
		Terms: factory.TermsJSON{
			AllowedTimeHours:    72,
			LaytimeType:         "reversible",
			DemurrageRatePerDay: 15000,
			ExceptionRules:      []string{"shex"},
			Currency:            "USD",
		},
	})
	if err != nil {
		return err
	}
	cp.CreatedAt = time.Now().UTC()
	if err := h.Store.SaveCharter(ctx, cp); err != nil {
		return err
	}

	if err := h.Store.SavePortCall(ctx, charter.PortCall{
		ID:        "call-singapore",
		CharterID: cp.ID,
		Port:      "Singapore",
		Role:      charter.RoleLoading,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	feb := func(day, hour, min int) time.Time {
		return time.Date(2026, 2, day, hour, min, 0, 0, time.UTC)
	}
	entries := []charter.SofEntry{
		{ID: "sof-1", At: feb(10, 6, 0), Kind: laytime.KindArrival, Description: "Vessel arrived at anchorage"},
		{ID: "sof-2", At: feb(10, 6, 30), Kind: laytime.KindNORTendered, Description: "Notice of readiness tendered"},
		{ID: "sof-3", At: feb(10, 8, 0), Kind: laytime.KindNORAccepted, Description: "NOR accepted", TimeUsed: laytime.HoursPtr(1.5)},
		{ID: "sof-4", At: feb(10, 14, 0), Kind: laytime.KindBerthing, Description: "All fast alongside", TimeUsed: laytime.HoursPtr(6)},
		{ID: "sof-5", At: feb(10, 15, 30), Kind: laytime.KindCommenceOps, Description: "Commenced loading", TimeUsed: laytime.HoursPtr(1.5)},
		{ID: "sof-6", At: feb(12, 10, 30), Kind: laytime.KindCompleteOps, Description: "Completed loading", TimeUsed: laytime.HoursPtr(43)},
		{ID: "sof-7", At: feb(12, 12, 30), Kind: laytime.KindSailing, Description: "Vessel sailed", TimeUsed: laytime.HoursPtr(2)},
	}
	for _, e := range entries {
		if err := h.Store.AppendSofEntry(ctx, "call-singapore", e); err != nil {
			return err
		}
	}

	cal := laytime.NewCalendar().
		MarkWorking(feb(9, 0, 0)).
		MarkWorking(feb(10, 0, 0)).
		MarkHoliday(feb(11, 0, 0)).
		MarkWorking(feb(12, 0, 0)).
		MarkWorking(feb(13, 0, 0)).
		MarkWorking(feb(14, 0, 0))
	return h.Store.SaveCalendar(ctx, "singapore", cal)
}

// loadRotterdamDischarge builds a discharge call that overruns: 100
// counting hours Mon Feb 16 through Fri Feb 20, no Sunday inside, all
// working days. 28h over the 72h allowance puts the vessel on demurrage
// for (28/24) * 15,000 = 17,500 USD.
func (h *Handler) loadRotterdamDischarge(ctx context.Context) error {
	cp, err := h.factory.FromJSON(factory.CharterJSON{
		ID:         "cp-2026-021",
		VesselName: "MV Harbor Crest",
		Charterer:  "Rhine Steel BV",
		Owner:      "Meridian Shipping",
		Terms: factory.TermsJSON{
			AllowedTimeHours:    72,
			LaytimeType:         "reversible",
			DemurrageRatePerDay: 15000,
			ExceptionRules:      []string{"shex"},
			Currency:            "USD",
		},
	})
	if err != nil {
		return err
	}
	cp.CreatedAt = time.Now().UTC()
	if err := h.Store.SaveCharter(ctx, cp); err != nil {
		return err
	}

	if err := h.Store.SavePortCall(ctx, charter.PortCall{
		ID:        "call-rotterdam",
		CharterID: cp.ID,
		Port:      "Rotterdam",
		Role:      charter.RoleDischarging,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	feb := func(day, hour, min int) time.Time {
		return time.Date(2026, 2, day, hour, min, 0, 0, time.UTC)
	}
	entries := []charter.SofEntry{
		{ID: "sof-1", At: feb(16, 8, 0), Kind: laytime.KindNORAccepted, Description: "NOR accepted"},
		{ID: "sof-2", At: feb(20, 12, 0), Kind: laytime.KindCompleteOps, Description: "Completed discharge", TimeUsed: laytime.HoursPtr(100)},
	}
	for _, e := range entries {
		if err := h.Store.AppendSofEntry(ctx, "call-rotterdam", e); err != nil {
			return err
		}
	}

	cal := laytime.NewCalendar()
	cal.AssumeWorking = true
	return h.Store.SaveCalendar(ctx, "rotterdam", cal)
}

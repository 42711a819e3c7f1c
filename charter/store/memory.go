// Package store provides charter.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/laytime"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	charters     map[string]charter.CharterParty
	charterOrder []string
	portCalls    map[string]charter.PortCall
	callOrder    map[string][]string // charterID -> portCall IDs
	calendars    map[string]laytime.Calendar
	calculations map[string][]charter.CalculationRecord // charterID -> records
}

func NewMemory() *Memory {
	return &Memory{
		charters:     make(map[string]charter.CharterParty),
		portCalls:    make(map[string]charter.PortCall),
		callOrder:    make(map[string][]string),
		calendars:    make(map[string]laytime.Calendar),
		calculations: make(map[string][]charter.CalculationRecord),
	}
}

func (m *Memory) SaveCharter(_ context.Context, cp charter.CharterParty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.charters[cp.ID]; !exists {
		m.charterOrder = append(m.charterOrder, cp.ID)
	}
	m.charters[cp.ID] = cp
	return nil
}

func (m *Memory) GetCharter(_ context.Context, id string) (charter.CharterParty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, ok := m.charters[id]
	if !ok {
		return charter.CharterParty{}, charter.ErrCharterNotFound
	}
	return cp, nil
}

func (m *Memory) ListCharters(_ context.Context) ([]charter.CharterParty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]charter.CharterParty, 0, len(m.charterOrder))
	for _, id := range m.charterOrder {
		result = append(result, m.charters[id])
	}
	return result, nil
}

func (m *Memory) SavePortCall(_ context.Context, pc charter.PortCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.portCalls[pc.ID]; !exists {
		m.callOrder[pc.CharterID] = append(m.callOrder[pc.CharterID], pc.ID)
	}
	m.portCalls[pc.ID] = pc
	return nil
}

func (m *Memory) ListPortCalls(_ context.Context, charterID string) ([]charter.PortCall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.callOrder[charterID]
	result := make([]charter.PortCall, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.portCalls[id])
	}
	return result, nil
}

// AppendSofEntry appends one entry. Append-only: entries are never
// rewritten in place.
func (m *Memory) AppendSofEntry(_ context.Context, portCallID string, entry charter.SofEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pc, ok := m.portCalls[portCallID]
	if !ok {
		return charter.ErrPortCallNotFound
	}
	for _, existing := range pc.Entries {
		if existing.ID == entry.ID {
			return charter.ErrDuplicateSofEntry
		}
	}
	pc.Entries = append(pc.Entries, entry)
	m.portCalls[portCallID] = pc
	return nil
}

func (m *Memory) SaveCalendar(_ context.Context, name string, cal laytime.Calendar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendars[name] = cal
	return nil
}

func (m *Memory) GetCalendar(_ context.Context, name string) (laytime.Calendar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cal, ok := m.calendars[name]
	if !ok {
		return laytime.Calendar{}, charter.ErrCalendarNotFound
	}
	return cal, nil
}

func (m *Memory) SaveCalculation(_ context.Context, rec charter.CalculationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := append(m.calculations[rec.CharterID], rec)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	m.calculations[rec.CharterID] = records
	return nil
}

func (m *Memory) ListCalculations(_ context.Context, charterID string) ([]charter.CalculationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]charter.CalculationRecord, len(m.calculations[charterID]))
	copy(result, m.calculations[charterID])
	return result, nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.charters = make(map[string]charter.CharterParty)
	m.charterOrder = nil
	m.portCalls = make(map[string]charter.PortCall)
	m.callOrder = make(map[string][]string)
	m.calendars = make(map[string]laytime.Calendar)
	m.calculations = make(map[string][]charter.CalculationRecord)
	return nil
}

// Compile-time check.
var _ charter.Store = (*Memory)(nil)

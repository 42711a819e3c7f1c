/*
Package sqlite provides a SQLite-backed implementation of charter.Store.

PURPOSE:
  Persists charter parties, port calls, statements of facts, calendars,
  and saved settlement calculations. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  Statement-of-facts entries are append-only:
  - No UPDATE statements on sof_entries
  - No DELETE statements on sof_entries
  - A wrong line is corrected by appending a new one and recomputing

KEY TABLES:
  charter_parties: Fixture records (terms stored as JSON documents)
  port_calls:      One row per port call under a charter
  sof_entries:     Immutable event log per port call, a monotonically
                   increasing seq preserves insertion order
  calendars:       Named port calendars as JSON documents
  calculations:    Settlement snapshots, exact decimal strings

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/laytime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - charter/store.go: Interface definition
  - charter/store/memory.go: In-memory implementation for testing
  - factory/charter.go: JSON document schema reused for storage
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/mari8x/laytime-engine/charter"
	"github.com/mari8x/laytime-engine/factory"
	"github.com/mari8x/laytime-engine/laytime"
)

// Store implements charter.Store using SQLite.
type Store struct {
	db      *sql.DB
	factory *factory.CharterFactory
	mu      sync.RWMutex
}

var _ charter.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, factory: factory.NewCharterFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Charter parties (terms as JSON documents, one schema for
	-- configuration and storage)
	CREATE TABLE IF NOT EXISTS charter_parties (
		id TEXT PRIMARY KEY,
		doc_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Port calls
	CREATE TABLE IF NOT EXISTS port_calls (
		id TEXT PRIMARY KEY,
		charter_id TEXT NOT NULL REFERENCES charter_parties(id),
		port TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_port_calls_charter
		ON port_calls(charter_id);

	-- Statement-of-facts entries (append-only event log)
	-- seq preserves the order entries were logged in; ties on the
	-- event timestamp resolve by log order.
	CREATE TABLE IF NOT EXISTS sof_entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		port_call_id TEXT NOT NULL REFERENCES port_calls(id),
		at TEXT NOT NULL,
		kind TEXT NOT NULL,
		description TEXT,
		remarks TEXT,
		time_used TEXT,
		counting_status TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sof_entries_call
		ON sof_entries(port_call_id, seq);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sof_entries_call_id
		ON sof_entries(port_call_id, id);

	-- Named port calendars
	CREATE TABLE IF NOT EXISTS calendars (
		name TEXT PRIMARY KEY,
		doc_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Saved settlement calculations
	CREATE TABLE IF NOT EXISTS calculations (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		charter_id TEXT NOT NULL REFERENCES charter_parties(id),
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_charter
		ON calculations(charter_id, seq DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CHARTER PARTIES
// =============================================================================

// SaveCharter inserts or replaces a charter party.
func (s *Store) SaveCharter(ctx context.Context, cp charter.CharterParty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(factory.CharterToJSON(cp))
	if err != nil {
		return fmt.Errorf("failed to encode charter: %w", err)
	}

	createdAt := cp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO charter_parties (id, doc_json, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_json = excluded.doc_json
	`

	_, err = s.db.ExecContext(ctx, query,
		cp.ID, string(doc), createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save charter: %w", err)
	}
	return nil
}

// GetCharter returns a charter party, or charter.ErrCharterNotFound.
func (s *Store) GetCharter(ctx context.Context, id string) (charter.CharterParty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docJSON, createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc_json, created_at FROM charter_parties WHERE id = ?",
		id,
	).Scan(&docJSON, &createdAt)

	if err == sql.ErrNoRows {
		return charter.CharterParty{}, charter.ErrCharterNotFound
	}
	if err != nil {
		return charter.CharterParty{}, err
	}

	return s.decodeCharter(docJSON, createdAt)
}

// ListCharters returns all charter parties ordered by creation.
func (s *Store) ListCharters(ctx context.Context) ([]charter.CharterParty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT doc_json, created_at FROM charter_parties ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charters []charter.CharterParty
	for rows.Next() {
		var docJSON, createdAt string
		if err := rows.Scan(&docJSON, &createdAt); err != nil {
			return nil, err
		}
		cp, err := s.decodeCharter(docJSON, createdAt)
		if err != nil {
			return nil, err
		}
		charters = append(charters, cp)
	}
	return charters, rows.Err()
}

func (s *Store) decodeCharter(docJSON, createdAt string) (charter.CharterParty, error) {
	var doc factory.CharterJSON
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return charter.CharterParty{}, fmt.Errorf("failed to decode charter: %w", err)
	}
	cp, err := s.factory.FromJSON(doc)
	if err != nil {
		return charter.CharterParty{}, fmt.Errorf("stored charter no longer valid: %w", err)
	}
	cp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return cp, nil
}

// =============================================================================
// PORT CALLS AND STATEMENTS OF FACTS
// =============================================================================

// SavePortCall inserts or replaces a port call shell. Entries are
// appended separately and survive a shell update.
func (s *Store) SavePortCall(ctx context.Context, pc charter.PortCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.charterExists(ctx, pc.CharterID); err != nil {
		return err
	}

	createdAt := pc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO port_calls (id, charter_id, port, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			port = excluded.port,
			role = excluded.role
	`

	_, err := s.db.ExecContext(ctx, query,
		pc.ID, pc.CharterID, pc.Port, string(pc.Role),
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save port call: %w", err)
	}
	return nil
}

// ListPortCalls returns the port calls of a charter in order, each with
// its statement of facts loaded.
func (s *Store) ListPortCalls(ctx context.Context, charterID string) ([]charter.PortCall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.charterExists(ctx, charterID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, charter_id, port, role, created_at
		 FROM port_calls WHERE charter_id = ?
		 ORDER BY created_at ASC, id ASC`,
		charterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calls []charter.PortCall
	for rows.Next() {
		var pc charter.PortCall
		var role, createdAt string
		if err := rows.Scan(&pc.ID, &pc.CharterID, &pc.Port, &role, &createdAt); err != nil {
			return nil, err
		}
		pc.Role = charter.PortCallRole(role)
		pc.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		calls = append(calls, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range calls {
		entries, err := s.loadEntries(ctx, calls[i].ID)
		if err != nil {
			return nil, err
		}
		calls[i].Entries = entries
	}
	return calls, nil
}

// AppendSofEntry appends one statement-of-facts line to a call.
// Append-only: there is no update or delete. Reused entry IDs are
// rejected before the unique index fires so the caller sees the
// sentinel, not a driver error.
func (s *Store) AppendSofEntry(ctx context.Context, portCallID string, entry charter.SofEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM port_calls WHERE id = ?", portCallID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return charter.ErrPortCallNotFound
	}

	var used int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sof_entries WHERE port_call_id = ? AND id = ?",
		portCallID, entry.ID).Scan(&used)
	if err != nil {
		return err
	}
	if used > 0 {
		return charter.ErrDuplicateSofEntry
	}

	var timeUsed sql.NullString
	if entry.TimeUsed != nil {
		timeUsed = sql.NullString{String: entry.TimeUsed.Value.String(), Valid: true}
	}
	var status sql.NullString
	if entry.Status != nil {
		status = sql.NullString{String: string(*entry.Status), Valid: true}
	}

	query := `
		INSERT INTO sof_entries
		(id, port_call_id, at, kind, description, remarks, time_used, counting_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		entry.ID, portCallID,
		entry.At.UTC().Format(time.RFC3339),
		string(entry.Kind),
		entry.Description, entry.Remarks,
		timeUsed, status,
	)
	if err != nil {
		return fmt.Errorf("failed to append sof entry: %w", err)
	}
	return nil
}

func (s *Store) loadEntries(ctx context.Context, portCallID string) ([]charter.SofEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, kind, description, remarks, time_used, counting_status
		 FROM sof_entries WHERE port_call_id = ?
		 ORDER BY seq ASC`,
		portCallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []charter.SofEntry
	for rows.Next() {
		var e charter.SofEntry
		var at, kind string
		var timeUsed, status sql.NullString
		if err := rows.Scan(&e.ID, &at, &kind, &e.Description, &e.Remarks, &timeUsed, &status); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339, at)
		e.Kind = laytime.EventKind(kind)
		if timeUsed.Valid {
			v, err := decimal.NewFromString(timeUsed.String)
			if err != nil {
				return nil, fmt.Errorf("failed to decode time used for entry %s: %w", e.ID, err)
			}
			e.TimeUsed = &laytime.Hours{Value: v}
		}
		if status.Valid {
			st := laytime.CountingStatus(status.String)
			e.Status = &st
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// CALENDARS
// =============================================================================

// SaveCalendar stores a named port calendar.
func (s *Store) SaveCalendar(ctx context.Context, name string, cal laytime.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(factory.CalendarToJSON(cal))
	if err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}

	query := `
		INSERT INTO calendars (name, doc_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			doc_json = excluded.doc_json,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		name, string(doc), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetCalendar returns a named calendar, or charter.ErrCalendarNotFound.
func (s *Store) GetCalendar(ctx context.Context, name string) (laytime.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc_json FROM calendars WHERE name = ?", name).Scan(&docJSON)

	if err == sql.ErrNoRows {
		return laytime.Calendar{}, charter.ErrCalendarNotFound
	}
	if err != nil {
		return laytime.Calendar{}, err
	}

	var doc factory.CalendarJSON
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return laytime.Calendar{}, fmt.Errorf("failed to decode calendar: %w", err)
	}
	return s.factory.CalendarFromJSON(doc)
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// resultDoc is the stored form of a settlement result. Decimal values
// are kept as strings so no precision is lost on the round trip.
type resultDoc struct {
	AllowedTime    string `json:"allowed_time"`
	GrossTimeUsed  string `json:"gross_time_used"`
	ExcludedHours  string `json:"excluded_hours"`
	NetTimeUsed    string `json:"net_time_used"`
	TimeDifference string `json:"time_difference"`
	OnDemurrage    bool   `json:"on_demurrage"`
	AmountDue      string `json:"amount_due"`
	Currency       string `json:"currency"`
}

// SaveCalculation records a settlement snapshot.
func (s *Store) SaveCalculation(ctx context.Context, rec charter.CalculationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.charterExists(ctx, rec.CharterID); err != nil {
		return err
	}

	doc := resultDoc{
		AllowedTime:    rec.Result.AllowedTime.Value.String(),
		GrossTimeUsed:  rec.Result.GrossTimeUsed.Value.String(),
		ExcludedHours:  rec.Result.ExcludedHours.Value.String(),
		NetTimeUsed:    rec.Result.NetTimeUsed.Value.String(),
		TimeDifference: rec.Result.TimeDifference.Value.String(),
		OnDemurrage:    rec.Result.OnDemurrage,
		AmountDue:      rec.Result.AmountDue.Value.String(),
		Currency:       rec.Result.AmountDue.Currency,
	}
	resultJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO calculations (id, charter_id, result_json, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.CharterID, string(resultJSON),
		createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// ListCalculations returns a charter's saved settlements, newest first.
func (s *Store) ListCalculations(ctx context.Context, charterID string) ([]charter.CalculationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.charterExists(ctx, charterID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, charter_id, result_json, created_at
		 FROM calculations WHERE charter_id = ?
		 ORDER BY seq DESC`,
		charterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []charter.CalculationRecord
	for rows.Next() {
		var rec charter.CalculationRecord
		var resultJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.CharterID, &resultJSON, &createdAt); err != nil {
			return nil, err
		}
		result, err := decodeResult(resultJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode calculation %s: %w", rec.ID, err)
		}
		rec.Result = result
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func decodeResult(resultJSON string) (laytime.SettlementResult, error) {
	var doc resultDoc
	if err := json.Unmarshal([]byte(resultJSON), &doc); err != nil {
		return laytime.SettlementResult{}, err
	}

	var result laytime.SettlementResult
	fields := []struct {
		raw  string
		dest *laytime.Hours
	}{
		{doc.AllowedTime, &result.AllowedTime},
		{doc.GrossTimeUsed, &result.GrossTimeUsed},
		{doc.ExcludedHours, &result.ExcludedHours},
		{doc.NetTimeUsed, &result.NetTimeUsed},
		{doc.TimeDifference, &result.TimeDifference},
	}
	for _, f := range fields {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return laytime.SettlementResult{}, err
		}
		f.dest.Value = v
	}

	amount, err := decimal.NewFromString(doc.AmountDue)
	if err != nil {
		return laytime.SettlementResult{}, err
	}
	result.OnDemurrage = doc.OnDemurrage
	result.AmountDue = laytime.Money{Value: amount, Currency: doc.Currency}
	return result, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

func (s *Store) charterExists(ctx context.Context, id string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM charter_parties WHERE id = ?", id).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return charter.ErrCharterNotFound
	}
	return nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"calculations", "sof_entries", "port_calls", "calendars", "charter_parties"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Package store persists assessment history. Every recorded run keeps the
// dimension breakdown alongside the combined score so quality trends for a
// configuration can be inspected over time.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// HistoryStore is an SQLite-backed record of rule-based assessments.
// Thread-safe with a read-write mutex; one store per process is expected.
type HistoryStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// HistoryEntry is one recorded assessment.
type HistoryEntry struct {
	ID              string    `json:"id"`
	ConfigID        string    `json:"configId,omitempty"`
	InputHash       string    `json:"inputHash"`
	LayoutScore     float64   `json:"layoutScore"`
	TypographyScore float64   `json:"typographyScore"`
	SpacingScore    float64   `json:"spacingScore"`
	CombinedScore   float64   `json:"combinedScore"`
	DurationMs      int64     `json:"durationMs"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HistorySummary aggregates the recorded runs.
type HistorySummary struct {
	TotalRuns       int     `json:"totalRuns"`
	AverageCombined float64 `json:"averageCombined"`
	BestCombined    float64 `json:"bestCombined"`
	WorstCombined   float64 `json:"worstCombined"`
}

const schema = `
CREATE TABLE IF NOT EXISTS assessment_history (
	id               TEXT PRIMARY KEY,
	config_id        TEXT NOT NULL DEFAULT '',
	input_hash       TEXT NOT NULL,
	layout_score     REAL NOT NULL,
	typography_score REAL NOT NULL,
	spacing_score    REAL NOT NULL,
	combined_score   REAL NOT NULL,
	duration_ms      INTEGER NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_config ON assessment_history(config_id);
CREATE INDEX IF NOT EXISTS idx_history_created ON assessment_history(created_at);
`

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// HashInput fingerprints the assessed markup so identical inputs are
// recognizable across runs.
func HashInput(htmlSrc string) string {
	sum := sha256.Sum256([]byte(htmlSrc))
	return hex.EncodeToString(sum[:8])
}

// Record inserts one assessment run. The entry's ID and CreatedAt are
// assigned here when unset.
func (s *HistoryStore) Record(entry HistoryEntry) (HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO assessment_history
		(id, config_id, input_hash, layout_score, typography_score, spacing_score, combined_score, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ConfigID, entry.InputHash,
		entry.LayoutScore, entry.TypographyScore, entry.SpacingScore, entry.CombinedScore,
		entry.DurationMs, entry.CreatedAt)
	if err != nil {
		return entry, fmt.Errorf("record assessment: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first, optionally filtered
// by configId.
func (s *HistoryStore) Recent(configID string, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, config_id, input_hash, layout_score, typography_score, spacing_score, combined_score, duration_ms, created_at
		FROM assessment_history`
	args := []any{}
	if configID != "" {
		query += ` WHERE config_id = ?`
		args = append(args, configID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.ConfigID, &e.InputHash,
			&e.LayoutScore, &e.TypographyScore, &e.SpacingScore, &e.CombinedScore,
			&e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary aggregates all recorded runs, optionally per configId.
func (s *HistoryStore) Summary(configID string) (HistorySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(combined_score), 0),
		       COALESCE(MAX(combined_score), 0),
		       COALESCE(MIN(combined_score), 0)
		FROM assessment_history`
	args := []any{}
	if configID != "" {
		query += ` WHERE config_id = ?`
		args = append(args, configID)
	}

	var sum HistorySummary
	err := s.db.QueryRow(query, args...).Scan(
		&sum.TotalRuns, &sum.AverageCombined, &sum.BestCombined, &sum.WorstCombined)
	if err != nil {
		return sum, fmt.Errorf("summarize history: %w", err)
	}
	return sum, nil
}

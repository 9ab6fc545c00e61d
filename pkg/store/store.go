// Sqlite-backed history of cassis runs.
//
// Each run stores the serialized results document plus the validity key
// columns (record id and the two thresholds). The latest payload for a record
// feeds the cache-regeneration path; whether it is still valid is decided by
// the results package, not here.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNoPreviousRun = errors.New("no previous run for record")

const schema = `
	CREATE TABLE IF NOT EXISTS cassis_runs (
		run_id         TEXT PRIMARY KEY,
		record_id      TEXT NOT NULL,
		max_percentage REAL NOT NULL,
		max_gap_length INTEGER NOT NULL,
		created_at     TEXT NOT NULL,
		payload        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cassis_runs_record ON cassis_runs (record_id, created_at);
`

type RunStore struct {
	db *sql.DB
}

func New(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating cassis_runs schema: %w", err)
	}
	return nil
}

// SaveRun records one serialized results document and returns its run id.
func (s *RunStore) SaveRun(ctx context.Context, recordID string, maxPercentage float64,
	maxGapLength int, payload []byte) (string, error) {

	qstring := `
		INSERT INTO cassis_runs (run_id, record_id, max_percentage, max_gap_length, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?);
	`

	stm, err := s.db.PrepareContext(ctx, qstring)
	if err != nil {
		return "", fmt.Errorf("saving cassis run: %w", err)
	}
	defer stm.Close()

	runID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := stm.ExecContext(ctx, runID, recordID, maxPercentage, maxGapLength,
		createdAt, string(payload)); err != nil {
		return "", fmt.Errorf("saving cassis run: %w", err)
	}

	return runID, nil
}

// LoadLatest returns the most recent payload stored for a record, or
// ErrNoPreviousRun when the record has never been analysed.
func (s *RunStore) LoadLatest(ctx context.Context, recordID string) ([]byte, error) {
	qstring := `
		SELECT payload FROM cassis_runs
		WHERE record_id = ?
		ORDER BY created_at DESC
		LIMIT 1;
	`

	stm, err := s.db.PrepareContext(ctx, qstring)
	if err != nil {
		return nil, fmt.Errorf("loading previous cassis run: %w", err)
	}
	defer stm.Close()

	var payload string
	if err := stm.QueryRowContext(ctx, recordID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoPreviousRun
		}
		return nil, fmt.Errorf("loading previous cassis run: %w", err)
	}

	return []byte(payload), nil
}

// CountRuns reports how many runs are stored for a record.
func (s *RunStore) CountRuns(ctx context.Context, recordID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cassis_runs WHERE record_id = ?;`, recordID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cassis runs: %w", err)
	}
	return count, nil
}

package audit

// #region imports
import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/permitsafe/go-analyzer/internal/activation"
	"github.com/permitsafe/go-analyzer/internal/report"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id          TEXT PRIMARY KEY,
	permit_id       TEXT NOT NULL,
	risk_level      TEXT NOT NULL,
	adequacy_score  REAL NOT NULL,
	completeness    REAL NOT NULL,
	critical_issues INTEGER NOT NULL,
	gaps            INTEGER NOT NULL,
	action_items    INTEGER NOT NULL,
	elapsed_ms      INTEGER NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activation_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	domain      TEXT NOT NULL,
	specialist  TEXT NOT NULL,
	activated   INTEGER NOT NULL,
	confidence  REAL NOT NULL,
	threshold   REAL NOT NULL,
	rationale   TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES analysis_runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_activation_log_run
ON activation_log(run_id);
`

// #endregion schema

// #region store

// Store persists activation decisions and run summaries for later review.
type Store struct {
	db *sql.DB
}

// Open opens the audit database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	// Pragmas are per-connection; a single connection keeps them in force
	// and sidesteps sqlite write contention.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion store

// #region record

// RecordRun persists the run summary row.
func (s *Store) RecordRun(analysis report.Analysis) error {
	_, err := s.db.Exec(`
		INSERT INTO analysis_runs
		(run_id, permit_id, risk_level, adequacy_score, completeness,
		 critical_issues, gaps, action_items, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.ID, analysis.PermitID, analysis.Summary.RiskLevel,
		analysis.Summary.AdequacyScore, analysis.Summary.Completeness,
		analysis.Summary.CriticalIssues, analysis.Summary.UnresolvedGaps,
		len(analysis.ActionItems), analysis.Elapsed.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecordActivations persists one row per activation decision. The rows are
// written in a single transaction so a run's log is never half-recorded.
func (s *Store) RecordActivations(runID string, decisions []activation.Decision) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin activation tx: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, dec := range decisions {
		activated := 0
		if dec.Activated {
			activated = 1
		}
		_, err := tx.Exec(`
			INSERT INTO activation_log
			(run_id, domain, specialist, activated, confidence, threshold, rationale, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, dec.Domain, dec.Specialist, activated,
			dec.Confidence, dec.Threshold, dec.Rationale, now)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record activation %s: %w", dec.Domain, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit activations: %w", err)
	}
	return nil
}

// #endregion record

// #region query

// RunRow is one persisted run summary.
type RunRow struct {
	RunID          string
	PermitID       string
	RiskLevel      string
	AdequacyScore  float64
	Completeness   float64
	CriticalIssues int
	Gaps           int
	ActionItems    int
	ElapsedMS      int64
	CreatedAt      string
}

// RecentRuns returns the latest run summaries, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRow, error) {
	rows, err := s.db.Query(`
		SELECT run_id, permit_id, risk_level, adequacy_score, completeness,
		       critical_issues, gaps, action_items, elapsed_ms, created_at
		FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.PermitID, &r.RiskLevel, &r.AdequacyScore,
			&r.Completeness, &r.CriticalIssues, &r.Gaps, &r.ActionItems,
			&r.ElapsedMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ActivationRow is one persisted activation decision.
type ActivationRow struct {
	Domain     string
	Specialist string
	Activated  bool
	Confidence float64
	Threshold  float64
	Rationale  string
}

// ActivationsForRun returns the activation decisions of one run.
func (s *Store) ActivationsForRun(runID string) ([]ActivationRow, error) {
	rows, err := s.db.Query(`
		SELECT domain, specialist, activated, confidence, threshold, rationale
		FROM activation_log WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query activations: %w", err)
	}
	defer rows.Close()

	var out []ActivationRow
	for rows.Next() {
		var r ActivationRow
		var activated int
		if err := rows.Scan(&r.Domain, &r.Specialist, &activated,
			&r.Confidence, &r.Threshold, &r.Rationale); err != nil {
			return nil, fmt.Errorf("scan activation: %w", err)
		}
		r.Activated = activated != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion query

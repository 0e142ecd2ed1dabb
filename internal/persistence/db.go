// Package persistence provides SQLite-based storage for completed run
// summaries, so the API can serve run history across restarts.
package persistence

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/results"
)

// DB wraps a SQLite connection for run history storage.
type DB struct {
	conn *sqlx.DB
}

// RunRecord is one stored run summary row.
type RunRecord struct {
	ID           string    `db:"id" json:"id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	Preset       string    `db:"preset" json:"preset,omitempty"`
	Members      int       `db:"members" json:"members"`
	Weeks        int       `db:"weeks" json:"weeks"`
	TotalWealthA float64   `db:"total_wealth_a" json:"total_wealth_a"`
	TotalWealthB float64   `db:"total_wealth_b" json:"total_wealth_b"`
	GiniA        float64   `db:"gini_a" json:"gini_a"`
	GiniB        float64   `db:"gini_b" json:"gini_b"`
	ErrorPercent float64   `db:"error_percent" json:"error_percent"`
	Score        float64   `db:"score" json:"score"`
	Passed       bool      `db:"passed" json:"passed"`
	ParamsJSON   string    `db:"params_json" json:"-"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		preset TEXT NOT NULL DEFAULT '',
		members INTEGER NOT NULL,
		weeks INTEGER NOT NULL,
		total_wealth_a REAL NOT NULL,
		total_wealth_b REAL NOT NULL,
		gini_a REAL NOT NULL,
		gini_b REAL NOT NULL,
		error_percent REAL NOT NULL,
		score REAL NOT NULL,
		passed INTEGER NOT NULL,
		params_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun records a completed run's summary row. The full weekly history is
// not persisted; it is large and reproducible from params_json.
func (db *DB) SaveRun(res *results.SimulationResults, p params.ParameterSet, preset string) error {
	final := res.History[len(res.History)-1]

	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	_, err = db.conn.Exec(`INSERT INTO runs
		(id, created_at, preset, members, weeks,
		 total_wealth_a, total_wealth_b, gini_a, gini_b,
		 error_percent, score, passed, params_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID.String(), res.CreatedAt, preset,
		len(res.FinalMembers), len(res.History),
		final.TotalWealthA, final.TotalWealthB, final.GiniA, final.GiniB,
		res.Validation.ErrorPercentage, res.Validation.Score, res.Validation.Passed,
		string(paramsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", res.RunID, err)
	}
	return nil
}

// RecentRuns returns the most recent N run summaries, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	return runs, err
}

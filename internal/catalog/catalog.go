// Package catalog keeps a small provenance log of data preparation
// runs in a local sqlite database. The published datasets are
// regenerated many times during a season; the catalog answers which
// tool produced a file, from what inputs, and with what seed.
package catalog

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// EnvVar names the environment variable holding the catalog path.
// When unset, run recording is skipped.
const EnvVar = "FLYWAY_CATALOG"

// Run is one recorded tool invocation.
type Run struct {
	RunID      string
	Tool       string
	Inputs     []string
	Output     string
	RowsIn     int64
	RowsOut    int64
	Seed       int64
	DurationMs int64
	CreatedAt  time.Time
}

// DB wraps the catalog database handle.
type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the catalog at path and applies any
// pending schema migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	db := &DB{sqlDB}
	if err := db.migrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Note: m is not closed because that would close the underlying DB
	// connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// RecordRun inserts a run row and returns its generated ID.
func (db *DB) RecordRun(run Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	_, err := db.Exec(
		`INSERT INTO runs (run_id, tool, inputs, output, rows_in, rows_out, seed, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Tool, strings.Join(run.Inputs, "\n"), run.Output,
		run.RowsIn, run.RowsOut, run.Seed, run.DurationMs,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.RunID, nil
}

// ListRuns returns the most recent runs for a tool, newest first. An
// empty tool name lists runs for all tools.
func (db *DB) ListRuns(tool string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT run_id, tool, inputs, output, rows_in, rows_out, seed, duration_ms, created_at
		FROM runs`
	args := []any{}
	if tool != "" {
		query += ` WHERE tool = ?`
		args = append(args, tool)
	}
	query += ` ORDER BY created_at DESC, run_id LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var inputs string
		if err := rows.Scan(&r.RunID, &r.Tool, &inputs, &r.Output,
			&r.RowsIn, &r.RowsOut, &r.Seed, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if inputs != "" {
			r.Inputs = strings.Split(inputs, "\n")
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Recorder writes runs when a catalog is configured and swallows
// everything when it is not, so the tools never fail on provenance
// bookkeeping.
type Recorder struct {
	db *DB
}

// NewRecorder opens the catalog named by the environment value, which
// is empty when recording is disabled. Open errors are logged, not
// returned; a broken catalog must not block a data build.
func NewRecorder(path string) *Recorder {
	if path == "" {
		return &Recorder{}
	}
	db, err := Open(path)
	if err != nil {
		log.Printf("catalog disabled: %v", err)
		return &Recorder{}
	}
	return &Recorder{db: db}
}

// Record stores one run if the catalog is open.
func (r *Recorder) Record(run Run) {
	if r.db == nil {
		return
	}
	if _, err := r.db.RecordRun(run); err != nil {
		log.Printf("catalog: %v", err)
	}
}

// Close releases the catalog handle.
func (r *Recorder) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

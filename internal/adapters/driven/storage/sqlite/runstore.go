package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/halcyon-tools/jirafetch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/halcyon-tools/jirafetch/internal/core/domain"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is a SQLite-backed implementation of driven.RunStore.
type RunStore struct {
	db   *sql.DB
	path string
}

// NewRunStore opens (and migrates) the run history database in dataDir.
// If dataDir is empty, defaults to ~/.jirafetch/data/history.db.
func NewRunStore(dataDir string) (*RunStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".jirafetch", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode for concurrent readers while a run is being recorded.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &RunStore{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RunStore) Path() string {
	return s.path
}

// Save stores a run record.
func (s *RunStore) Save(ctx context.Context, run domain.ExportRun) error {
	artifacts, err := json.Marshal(run.Artifacts)
	if err != nil {
		return fmt.Errorf("marshalling artifacts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO export_runs (id, query, started_at, finished_at, ticket_count, artifacts, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			query = excluded.query,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			ticket_count = excluded.ticket_count,
			artifacts = excluded.artifacts,
			status = excluded.status,
			error = excluded.error
	`, run.ID, run.Query,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.TicketCount, string(artifacts), run.Status, run.Error)

	if err != nil {
		return fmt.Errorf("saving export run: %w", err)
	}
	return nil
}

// List returns runs newest first, up to limit. A non-positive limit
// returns all runs.
func (s *RunStore) List(ctx context.Context, limit int) ([]domain.ExportRun, error) {
	query := `
		SELECT id, query, started_at, finished_at, ticket_count, artifacts, status, error
		FROM export_runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying export runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ExportRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating export runs: %w", err)
	}
	return runs, nil
}

// scanRun reads one export_runs row.
func scanRun(rows *sql.Rows) (*domain.ExportRun, error) {
	var run domain.ExportRun
	var startedAt, finishedAt, artifacts string

	if err := rows.Scan(&run.ID, &run.Query, &startedAt, &finishedAt,
		&run.TicketCount, &artifacts, &run.Status, &run.Error); err != nil {
		return nil, fmt.Errorf("scanning export run: %w", err)
	}

	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	if err := json.Unmarshal([]byte(artifacts), &run.Artifacts); err != nil {
		return nil, fmt.Errorf("unmarshalling artifacts: %w", err)
	}

	return &run, nil
}

// migrate runs all pending migrations.
func (s *RunStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_export_runs.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

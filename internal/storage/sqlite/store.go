package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/storage"
)

// Store implements storage.Store for SQLite
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Runs() storage.RunStore {
	return &runStore{db: s.db}
}

// migrate creates tables if they don't exist
func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			source TEXT,
			iface TEXT NOT NULL,
			ssid TEXT NOT NULL,
			id_str TEXT,
			method TEXT NOT NULL,
			action TEXT,
			network_id INTEGER,
			dry_run INTEGER NOT NULL DEFAULT 0,
			result TEXT NOT NULL,
			error TEXT,
			status TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// --- RunStore Implementation ---

type runStore struct {
	db *sql.DB
}

const runColumns = `id, started_at, source, iface, ssid, id_str, method, action, network_id, dry_run, result, error, status`

func (s *runStore) Add(ctx context.Context, run models.Run) error {
	status, err := json.Marshal(run.Status)
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	query := `INSERT INTO runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		run.ID, run.StartedAt.UnixNano(), run.Source, run.Iface, run.SSID, run.IDStr,
		string(run.Method), string(run.Action), run.NetworkID, run.DryRun, run.Result, run.Error, string(status))
	return err
}

func (s *runStore) Get(ctx context.Context, id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *runStore) List(ctx context.Context, limit int) ([]models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *runStore) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	query := `DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC LIMIT ?)`
	_, err := s.db.ExecContext(ctx, query, keep)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		r                             models.Run
		startedAt                     int64
		source, idStr, action, errStr sql.NullString
		method                        string
		networkID                     sql.NullInt64
		status                        sql.NullString
	)
	if err := row.Scan(&r.ID, &startedAt, &source, &r.Iface, &r.SSID, &idStr, &method, &action,
		&networkID, &r.DryRun, &r.Result, &errStr, &status); err != nil {
		return nil, err
	}
	r.StartedAt = time.Unix(0, startedAt)
	r.Source = source.String
	r.IDStr = idStr.String
	r.Method = models.Method(method)
	r.Action = models.Action(action.String)
	r.NetworkID = int(networkID.Int64)
	r.Error = errStr.String
	if status.Valid && status.String != "" && status.String != "null" {
		if err := json.Unmarshal([]byte(status.String), &r.Status); err != nil {
			return nil, fmt.Errorf("failed to decode status: %w", err)
		}
	}
	return &r, nil
}

package store

// Last-known-good snapshots of the upstream documents, so the server and
// the export command keep working through upstream outages.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"zpool-charts/internal/chart/series"
	"zpool-charts/internal/export"
)

// ErrNoSnapshot is returned when nothing has been stored yet.
var ErrNoSnapshot = errors.New("store: no snapshot available")

type Store struct {
	db *sql.DB
}

// Open creates or opens the snapshot database under dataDir.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("store: data dir is required")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("store: failed to create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "snapshots.db"))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS supply_snapshots (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			fetched_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS balance_snapshots (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			fetched_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}

// SaveSeries replaces the stored supply series.
func (s *Store) SaveSeries(ctx context.Context, data []series.Datum) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("store: failed to marshal series: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO supply_snapshots (id, fetched_at, payload) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			payload = excluded.payload
	`, time.Now().UTC().Format(time.RFC3339), payload)
	return err
}

// LoadSeries returns the stored supply series and when it was fetched.
func (s *Store) LoadSeries(ctx context.Context) ([]series.Datum, time.Time, error) {
	var fetchedAt string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM supply_snapshots WHERE id = 1`,
	).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	var data []series.Datum
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, time.Time{}, fmt.Errorf("store: failed to unmarshal series: %w", err)
	}
	at, _ := time.Parse(time.RFC3339, fetchedAt)
	return data, at, nil
}

// SaveBalances replaces the stored pool balance snapshot.
func (s *Store) SaveBalances(ctx context.Context, balances export.BalanceSnapshot) error {
	payload, err := json.Marshal(balances)
	if err != nil {
		return fmt.Errorf("store: failed to marshal balances: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO balance_snapshots (id, fetched_at, payload) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			payload = excluded.payload
	`, time.Now().UTC().Format(time.RFC3339), payload)
	return err
}

// LoadBalances returns the stored pool balance snapshot.
func (s *Store) LoadBalances(ctx context.Context) (export.BalanceSnapshot, time.Time, error) {
	var snapshot export.BalanceSnapshot
	var fetchedAt string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM balance_snapshots WHERE id = 1`,
	).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return snapshot, time.Time{}, err
	}

	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return snapshot, time.Time{}, fmt.Errorf("store: failed to unmarshal balances: %w", err)
	}
	at, _ := time.Parse(time.RFC3339, fetchedAt)
	return snapshot, at, nil
}

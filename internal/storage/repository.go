package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Dataset names used by the snapshot tooling and the snapshot source.
const (
	DatasetPledges  = "pledges"
	DatasetPayments = "payments"
)

// SnapshotRepository stores raw dataset documents in a local SQLite file so
// the dashboard can start without network access.
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(dbPath string) (*SnapshotRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotRepository{db: db}, nil
}

func (r *SnapshotRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveDataset stores (or replaces) the raw JSON document for a dataset.
func (r *SnapshotRepository) SaveDataset(ctx context.Context, name string, body []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO datasets (name, fetched_at, body)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET fetched_at = excluded.fetched_at, body = excluded.body`,
		name, time.Now().UTC(), body)
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", name, err)
	}
	return nil
}

// LoadDataset returns the raw JSON document for a dataset and when it was
// fetched.
func (r *SnapshotRepository) LoadDataset(ctx context.Context, name string) ([]byte, time.Time, error) {
	var (
		body      []byte
		fetchedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM datasets WHERE name = ?`, name).
		Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, fmt.Errorf("dataset %s: not in snapshot, run pledgeboard-import first", name)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load dataset %s: %w", name, err)
	}
	return body, fetchedAt, nil
}

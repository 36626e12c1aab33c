package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"gridfeed/pkg/grid"
)

// Store is the Postgres audit sink: each consumed batch is kept as one row
// so published traffic can be inspected after the fact.
type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, b grid.Batch, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO grid_update_batches (batch_id, grid_id, event_type, change_count, payload, produced_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (batch_id) DO NOTHING
	`, b.BatchID, b.GridID, b.EventType, len(b.Changes), payload, b.Timestamp)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

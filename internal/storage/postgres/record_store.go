package postgres

import (
	"context"
	"fmt"
	"sync"

	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/storage"
)

// createTableSQL is the durable equivalent of the CSV header row: the schema
// is ensured once, before the first append.
const createTableSQL = `
	CREATE TABLE IF NOT EXISTS token_creations (
		id            BIGSERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		symbol        TEXT NOT NULL,
		uri           TEXT NOT NULL,
		mint          TEXT NOT NULL,
		bonding_curve TEXT NOT NULL,
		"user"        TEXT NOT NULL,
		mint_time     TEXT NOT NULL,
		image         TEXT NOT NULL,
		twitter       TEXT NOT NULL,
		telegram      TEXT NOT NULL,
		website       TEXT NOT NULL
	)
`

// RecordStore implements storage.RecordStore using PostgreSQL.
type RecordStore struct {
	pool *Pool

	mu    sync.Mutex
	ready bool
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(pool *Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

// Append inserts one record as one row.
func (s *RecordStore) Append(ctx context.Context, record *domain.PersistedRecord) error {
	if record == nil {
		return storage.ErrInvalidInput
	}

	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	query := `
		INSERT INTO token_creations (
			name, symbol, uri, mint, bonding_curve, "user",
			mint_time, image, twitter, telegram, website
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		record.Name,
		record.Symbol,
		record.URI,
		record.Mint,
		record.BondingCurve,
		record.User,
		record.MintTime,
		record.Image,
		record.Twitter,
		record.Telegram,
		record.Website,
	)
	if err != nil {
		return fmt.Errorf("insert token creation: %w", err)
	}
	return nil
}

// ensureTable creates the table on the first successful call. A failed
// attempt is retried on the next append.
func (s *RecordStore) ensureTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("ensure token_creations table: %w", err)
	}
	s.ready = true
	return nil
}

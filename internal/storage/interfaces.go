package storage

import (
	"context"

	"pumpfun-monitor/internal/domain"
)

// RecordStore is the append-only sink for persisted token creation records.
// The store is single-writer: the pipeline appends records sequentially and
// never updates or deletes.
type RecordStore interface {
	// Append durably writes one record. Implementations write their header
	// (or schema) on the first append to an empty destination.
	Append(ctx context.Context, record *domain.PersistedRecord) error
}

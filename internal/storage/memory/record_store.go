// Package memory provides an in-memory record sink for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/storage"
)

// RecordStore is an in-memory implementation of storage.RecordStore.
type RecordStore struct {
	mu      sync.Mutex
	records []*domain.PersistedRecord
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

// Append stores a copy of the record.
func (s *RecordStore) Append(_ context.Context, record *domain.PersistedRecord) error {
	if record == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records = append(s.records, &recordCopy)
	return nil
}

// Records returns a snapshot of all appended records in append order.
func (s *RecordStore) Records() []*domain.PersistedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.PersistedRecord, len(s.records))
	copy(out, s.records)
	return out
}

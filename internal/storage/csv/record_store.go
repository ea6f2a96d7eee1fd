// Package csv implements the record sink as an append-only CSV file.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/storage"
)

// RecordStore appends records to a CSV file, writing the header row on the
// first write to an empty or absent file. Each append opens, flushes, syncs
// and closes the file so a record is durable before Append returns.
type RecordStore struct {
	path string
	mu   sync.Mutex
}

// NewRecordStore creates a store writing to path. The file is created lazily
// on the first append.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

// Append writes one record as one CSV row.
func (s *RecordStore) Append(_ context.Context, record *domain.PersistedRecord) error {
	if record == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(domain.RecordHeader()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(record.Row()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}

	return nil
}

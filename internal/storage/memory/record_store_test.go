package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/storage"
)

func TestRecordStore_AppendAndRead(t *testing.T) {
	store := NewRecordStore()

	rec := &domain.PersistedRecord{Name: "Tok", Symbol: "TK", Mint: "M1"}
	require.NoError(t, store.Append(context.Background(), rec))

	// Mutating the original must not affect the stored copy.
	rec.Name = "changed"

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Tok", records[0].Name)
}

func TestRecordStore_PreservesOrder(t *testing.T) {
	store := NewRecordStore()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(context.Background(), &domain.PersistedRecord{Name: name}))
	}

	records := store.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "b", records[1].Name)
	assert.Equal(t, "c", records[2].Name)
}

func TestRecordStore_NilRecord(t *testing.T) {
	store := NewRecordStore()

	err := store.Append(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/backend/domain"
)

func appendCreated(t *testing.T, log *FactLog, id uint64) uint64 {
	t.Helper()
	ordinal, err := log.Append(context.Background(), domain.NewListingCreated(&domain.Listing{
		Creator:  alice,
		ID:       id,
		Language: "Spanish",
		Rate:     100,
	}))
	require.NoError(t, err)
	return ordinal
}

func TestFactLogAppendAssignsMonotonicOrdinals(t *testing.T) {
	log := NewFactLog()

	for want := uint64(1); want <= 5; want++ {
		got := appendCreated(t, log, want-1)
		assert.Equal(t, want, got)
	}

	last, err := log.LastOrdinal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), last)
}

func TestFactLogReadFrom(t *testing.T) {
	log := NewFactLog()
	ctx := context.Background()

	for i := uint64(0); i < 5; i++ {
		appendCreated(t, log, i)
	}

	facts, err := log.ReadFrom(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, uint64(3), facts[0].Ordinal)

	limited, err := log.ReadFrom(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	empty, err := log.ReadFrom(ctx, 6, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFactLogCheckpoints(t *testing.T) {
	log := NewFactLog()
	ctx := context.Background()

	ordinal, err := log.LoadCheckpoint(ctx, "discovery")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ordinal)

	require.NoError(t, log.SaveCheckpoint(ctx, "discovery", 42))

	ordinal, err = log.LoadCheckpoint(ctx, "discovery")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), ordinal)
}

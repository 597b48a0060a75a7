package factlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/backend/domain"
)

const creator = domain.Identity("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factlog.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func created(id uint64) *domain.Fact {
	return domain.NewListingCreated(&domain.Listing{
		Creator:  creator,
		ID:       id,
		Language: "Spanish",
		Rate:     100,
	})
}

func TestAppendAssignsOrdinals(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	for want := uint64(1); want <= 3; want++ {
		fact := created(want - 1)
		ordinal, err := store.Append(ctx, fact)
		require.NoError(t, err)
		assert.Equal(t, want, ordinal)
		assert.Equal(t, want, fact.Ordinal)
	}

	last, err := store.LastOrdinal(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)
}

func TestReadFromRoundTrips(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	for i := uint64(0); i < 5; i++ {
		_, err := store.Append(ctx, created(i))
		require.NoError(t, err)
	}

	facts, err := store.ReadFrom(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, uint64(3), facts[0].Ordinal)
	assert.Equal(t, domain.FactListingCreated, facts[0].Kind)
	assert.Equal(t, creator, facts[0].Creator)
	assert.Equal(t, uint64(2), facts[0].ListingID)

	limited, err := store.ReadFrom(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOrdinalsSurviveReopen(t *testing.T) {
	store, path := openStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, created(0))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	ordinal, err := reopened.Append(ctx, created(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), ordinal)

	facts, err := reopened.ReadFrom(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, facts, 2)
}

func TestCheckpointRoundTrip(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	ordinal, err := store.LoadCheckpoint(ctx, "discovery")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ordinal)

	require.NoError(t, store.SaveCheckpoint(ctx, "discovery", 17))

	ordinal, err = store.LoadCheckpoint(ctx, "discovery")
	require.NoError(t, err)
	assert.Equal(t, uint64(17), ordinal)

	// Checkpoints are per consumer.
	other, err := store.LoadCheckpoint(ctx, "indexer")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), other)
}

func TestSize(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	_, err = store.Append(ctx, created(0))
	require.NoError(t, err)

	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

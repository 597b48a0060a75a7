package projector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
	"github.com/edulingo/backend/repository/memory"
	registryUC "github.com/edulingo/backend/usecase/registry"
)

const (
	creator   = domain.Identity("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	buyer     = domain.Identity("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	collector = domain.Identity("dddddddddddddddddddddddddddddddddddddddd")
)

func newProjector(log *memory.FactLog, view repository.ListingView) *Projector {
	return New(log, log, view, nil, Config{
		Consumer:  "test",
		Interval:  time.Minute,
		BatchSize: 2,
	})
}

func TestDrainFoldsCreatedAndPurchased(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	view := memory.NewViewStore()
	p := newProjector(log, view)

	_, err := log.Append(ctx, domain.NewListingCreated(&domain.Listing{
		Creator: creator, ID: 0, IsTeaching: true, Language: "Spanish", Rate: 100,
	}))
	require.NoError(t, err)
	_, err = log.Append(ctx, domain.NewListingPurchased(buyer, &domain.Listing{
		Creator: creator, ID: 0, Rate: 100,
	}))
	require.NoError(t, err)

	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)
	require.NoError(t, p.Drain(ctx))

	listing, err := view.Get(ctx, creator, 0)
	require.NoError(t, err)
	assert.False(t, listing.IsActive)
	assert.Equal(t, "Spanish", listing.Language)
	assert.Equal(t, uint64(100), listing.Rate)
}

func TestReplayedFactsApplyOnce(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	view := memory.NewViewStore()
	p := newProjector(log, view)

	created := &domain.Listing{Creator: creator, ID: 0, Language: "Spanish", Rate: 100}
	_, err := log.Append(ctx, domain.NewListingCreated(created))
	require.NoError(t, err)
	// The feed is at-least-once: the same event may be appended again by a
	// recovering producer.
	_, err = log.Append(ctx, domain.NewListingCreated(created))
	require.NoError(t, err)

	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)
	require.NoError(t, p.Drain(ctx))

	listings, err := view.List(ctx, repository.ViewFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestPurchaseBeforeCreateIsRejected(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	view := memory.NewViewStore()
	p := newProjector(log, view)

	_, err := log.Append(ctx, domain.NewListingPurchased(buyer, &domain.Listing{
		Creator: creator, ID: 3, Rate: 100,
	}))
	require.NoError(t, err)

	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)
	require.NoError(t, p.Drain(ctx))

	_, err = view.Get(ctx, creator, 3)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestCheckpointResume(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	view := memory.NewViewStore()

	p := newProjector(log, view)
	_, err := log.Append(ctx, domain.NewListingCreated(&domain.Listing{
		Creator: creator, ID: 0, Language: "Spanish", Rate: 100,
	}))
	require.NoError(t, err)

	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Drain(ctx))
	p.Stop(ctx)

	checkpoint, err := log.LoadCheckpoint(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), checkpoint)

	// A fresh projector over the same view resumes past the checkpoint.
	_, err = log.Append(ctx, domain.NewListingCreated(&domain.Listing{
		Creator: creator, ID: 1, Language: "French", Rate: 50,
	}))
	require.NoError(t, err)

	resumed := newProjector(log, view)
	require.NoError(t, resumed.Start(ctx))
	defer resumed.Stop(ctx)
	require.NoError(t, resumed.Drain(ctx))

	listings, err := view.List(ctx, repository.ViewFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

// Replaying the whole log must reproduce the live registry state exactly.
func TestRebuildMatchesRegistryState(t *testing.T) {
	ctx := context.Background()

	tokens := memory.NewTokenStore()
	listings := memory.NewListingStore()
	profiles := memory.NewProfileStore()
	log := memory.NewFactLog()
	registry := registryUC.New(profiles, listings, tokens, log, collector, nil)

	_, err := registry.CreateListing(ctx, creator, true, "Spanish", 100)
	require.NoError(t, err)
	_, err = registry.CreateListing(ctx, creator, false, "French", 50)
	require.NoError(t, err)
	_, err = registry.CreateListing(ctx, creator, true, "Japanese", 250)
	require.NoError(t, err)

	require.NoError(t, tokens.Mint(ctx, buyer, 1000))
	require.NoError(t, tokens.Approve(ctx, buyer, collector, 1000))
	_, err = registry.PurchaseListing(ctx, buyer, creator, 1)
	require.NoError(t, err)

	view := memory.NewViewStore()
	p := newProjector(log, view)
	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)
	require.NoError(t, p.Rebuild(ctx))

	live, err := registry.GetUserListings(ctx, creator)
	require.NoError(t, err)
	projected, err := view.List(ctx, repository.ViewFilter{})
	require.NoError(t, err)
	require.Len(t, projected, len(live))

	for i := range live {
		assert.Equal(t, live[i].ID, projected[i].ID)
		assert.Equal(t, live[i].Creator, projected[i].Creator)
		assert.Equal(t, live[i].IsTeaching, projected[i].IsTeaching)
		assert.Equal(t, live[i].Language, projected[i].Language)
		assert.Equal(t, live[i].Rate, projected[i].Rate)
		assert.Equal(t, live[i].IsActive, projected[i].IsActive)
	}
}

func TestSubSecondIntervalFloorsToOneSecond(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	p := New(log, log, memory.NewViewStore(), nil, Config{
		Consumer: "test",
		Interval: 50 * time.Millisecond,
	})

	assert.Equal(t, time.Second, p.cfg.Interval)

	// The floored interval yields a valid poll schedule.
	require.NoError(t, p.Start(ctx))
	p.Stop(ctx)
}

func TestReplayMemoryStaysBounded(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	view := memory.NewViewStore()
	p := New(log, log, view, nil, Config{
		Consumer:  "test",
		Interval:  time.Minute,
		BatchSize: 512,
	})

	total := dedupWindow + 500
	for i := 0; i < total; i++ {
		_, err := log.Append(ctx, domain.NewListingCreated(&domain.Listing{
			Creator: creator, ID: uint64(i), Language: "Spanish", Rate: 100,
		}))
		require.NoError(t, err)
	}

	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)
	require.NoError(t, p.Drain(ctx))

	listings, err := view.List(ctx, repository.ViewFilter{})
	require.NoError(t, err)
	assert.Len(t, listings, total)

	// Replay tracking only remembers the recent ordinal window.
	assert.LessOrEqual(t, len(p.applied), dedupWindow+1)
}

func TestViewFilters(t *testing.T) {
	ctx := context.Background()
	log := memory.NewFactLog()
	view := memory.NewViewStore()
	p := newProjector(log, view)

	teaching := true
	seed := []*domain.Listing{
		{Creator: creator, ID: 0, IsTeaching: true, Language: "Spanish", Rate: 100},
		{Creator: creator, ID: 1, IsTeaching: false, Language: "Spanish", Rate: 80},
		{Creator: creator, ID: 2, IsTeaching: true, Language: "French", Rate: 60},
	}
	for _, l := range seed {
		_, err := log.Append(ctx, domain.NewListingCreated(l))
		require.NoError(t, err)
	}

	require.NoError(t, p.Start(ctx))
	defer p.Stop(ctx)
	require.NoError(t, p.Drain(ctx))

	spanish, err := view.List(ctx, repository.ViewFilter{Language: "Spanish"})
	require.NoError(t, err)
	assert.Len(t, spanish, 2)

	spanishTeaching, err := view.List(ctx, repository.ViewFilter{Language: "Spanish", IsTeaching: &teaching})
	require.NoError(t, err)
	require.Len(t, spanishTeaching, 1)
	assert.Equal(t, uint64(0), spanishTeaching[0].ID)
}

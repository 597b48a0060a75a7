package memory

import (
	"context"
	"sync"
	"time"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// ListingStore keeps live listing state per creator. Ids are slice indexes,
// which makes the dense-from-zero invariant structural rather than checked.
type ListingStore struct {
	mu      sync.RWMutex
	byOwner map[domain.Identity][]*domain.Listing
}

func NewListingStore() *ListingStore {
	return &ListingStore{
		byOwner: make(map[domain.Identity][]*domain.Listing),
	}
}

func (s *ListingStore) Get(ctx context.Context, creator domain.Identity, id uint64) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := s.byOwner[creator]
	if id >= uint64(len(listings)) {
		return nil, domain.ErrListingNotFound
	}
	copied := *listings[id]
	return &copied, nil
}

func (s *ListingStore) ListByCreator(ctx context.Context, creator domain.Identity) ([]domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := s.byOwner[creator]
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		out = append(out, *l)
	}
	return out, nil
}

// Create assigns the next id for the creator and runs commit with it while
// holding the store lock. The listing is appended, and so becomes visible to
// readers, only after commit returns nil; a failed commit leaves the id
// unconsumed.
func (s *ListingStore) Create(ctx context.Context, listing *domain.Listing, commit func(id uint64) error) (uint64, error) {
	if listing == nil {
		return 0, domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *listing
	stored.ID = uint64(len(s.byOwner[listing.Creator]))
	stored.IsActive = true
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	listing.ID = stored.ID
	listing.IsActive = true
	listing.CreatedAt = stored.CreatedAt

	if commit != nil {
		if err := commit(stored.ID); err != nil {
			return 0, err
		}
	}

	s.byOwner[listing.Creator] = append(s.byOwner[listing.Creator], &stored)
	return stored.ID, nil
}

func (s *ListingStore) Deactivate(ctx context.Context, creator domain.Identity, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listings := s.byOwner[creator]
	if id >= uint64(len(listings)) {
		return domain.ErrListingNotFound
	}
	if !listings[id].IsActive {
		return domain.ErrListingInactive
	}
	listings[id].IsActive = false
	return nil
}

var _ repository.ListingRepository = (*ListingStore)(nil)

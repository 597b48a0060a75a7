package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

type viewKey struct {
	creator domain.Identity
	id      uint64
}

// ViewStore is an in-memory materialized listing view for a projector.
type ViewStore struct {
	mu       sync.RWMutex
	listings map[viewKey]*domain.Listing
}

func NewViewStore() *ViewStore {
	return &ViewStore{
		listings: make(map[viewKey]*domain.Listing),
	}
}

func (s *ViewStore) Put(ctx context.Context, listing *domain.Listing) error {
	if listing == nil {
		return domain.ErrInvalidPayload
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *listing
	s.listings[viewKey{creator: listing.Creator, id: listing.ID}] = &copied
	return nil
}

func (s *ViewStore) Get(ctx context.Context, creator domain.Identity, id uint64) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[viewKey{creator: creator, id: id}]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := *l
	return &copied, nil
}

func (s *ViewStore) List(ctx context.Context, filter repository.ViewFilter) ([]domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Listing
	for _, l := range s.listings {
		if !matchesFilter(l, filter) {
			continue
		}
		out = append(out, *l)
	}
	sortListings(out)
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *ViewStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = make(map[viewKey]*domain.Listing)
	return nil
}

func matchesFilter(l *domain.Listing, filter repository.ViewFilter) bool {
	if filter.ActiveOnly && !l.IsActive {
		return false
	}
	if filter.Language != "" && l.Language != filter.Language {
		return false
	}
	if filter.IsTeaching != nil && l.IsTeaching != *filter.IsTeaching {
		return false
	}
	return true
}

func sortListings(listings []domain.Listing) {
	sort.Slice(listings, func(i, j int) bool {
		if listings[i].Creator != listings[j].Creator {
			return listings[i].Creator < listings[j].Creator
		}
		return listings[i].ID < listings[j].ID
	})
}

func paginate(listings []domain.Listing, limit, offset int) []domain.Listing {
	if offset > 0 {
		if offset >= len(listings) {
			return nil
		}
		listings = listings[offset:]
	}
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}
	return listings
}

var _ repository.ListingView = (*ViewStore)(nil)

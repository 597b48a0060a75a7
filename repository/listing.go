package repository

import (
	"context"

	"github.com/edulingo/backend/domain"
)

// ListingRepository stores live listing state keyed by (creator, id).
//
// Create assigns the next dense per-creator id, invokes commit with it and
// publishes the listing as active only if commit returns nil, all inside the
// store's critical section. A failed commit consumes no id and the listing is
// never observable, so readers only ever see listings whose creation has been
// recorded. Deactivate flips an active listing to consumed and fails with
// domain.ErrListingInactive if it already is.
type ListingRepository interface {
	Get(ctx context.Context, creator domain.Identity, id uint64) (*domain.Listing, error)
	ListByCreator(ctx context.Context, creator domain.Identity) ([]domain.Listing, error)
	Create(ctx context.Context, listing *domain.Listing, commit func(id uint64) error) (uint64, error)
	Deactivate(ctx context.Context, creator domain.Identity, id uint64) error
}

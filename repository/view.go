package repository

import (
	"context"

	"github.com/edulingo/backend/domain"
)

// ViewFilter narrows the projected listing set served to discovery clients.
type ViewFilter struct {
	Language   string
	IsTeaching *bool
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListingView is the materialized view a projector folds the fact log into.
// It is a pure projection: it may be dropped and rebuilt from ordinal 0 at
// any time, and it is never consulted by the registry itself.
type ListingView interface {
	Put(ctx context.Context, listing *domain.Listing) error
	Get(ctx context.Context, creator domain.Identity, id uint64) (*domain.Listing, error)
	List(ctx context.Context, filter ViewFilter) ([]domain.Listing, error)
	Reset(ctx context.Context) error
}

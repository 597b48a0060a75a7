package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redislib "github.com/redis/go-redis/v9"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

type viewRepository struct {
	client *redislib.Client
	prefix string
}

// NewViewRepository creates a Redis-backed materialized listing view. Each
// listing lives under its own key so projector writes stay single-key
// updates; discovery reads scan the prefix.
func NewViewRepository(client *redislib.Client) repository.ListingView {
	return &viewRepository{
		client: client,
		prefix: "view:listing:",
	}
}

func (r *viewRepository) Put(ctx context.Context, listing *domain.Listing) error {
	if listing == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(listing.Creator, listing.ID), payload, 0).Err()
}

func (r *viewRepository) Get(ctx context.Context, creator domain.Identity, id uint64) (*domain.Listing, error) {
	result, err := r.client.Get(ctx, r.key(creator, id)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	var listing domain.Listing
	if err := json.Unmarshal([]byte(result), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *viewRepository) List(ctx context.Context, filter repository.ViewFilter) ([]domain.Listing, error) {
	var listings []domain.Listing

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		result, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if err == redislib.Nil {
				continue
			}
			return nil, err
		}
		var listing domain.Listing
		if err := json.Unmarshal([]byte(result), &listing); err != nil {
			continue
		}
		if !matches(&listing, filter) {
			continue
		}
		listings = append(listings, listing)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Slice(listings, func(i, j int) bool {
		if listings[i].Creator != listings[j].Creator {
			return listings[i].Creator < listings[j].Creator
		}
		return listings[i].ID < listings[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(listings) {
			return nil, nil
		}
		listings = listings[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(listings) {
		listings = listings[:filter.Limit]
	}
	return listings, nil
}

func (r *viewRepository) Reset(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *viewRepository) key(creator domain.Identity, id uint64) string {
	return fmt.Sprintf("%s%s:%d", r.prefix, creator, id)
}

func matches(l *domain.Listing, filter repository.ViewFilter) bool {
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

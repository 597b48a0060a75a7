package registry

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

const lockStripes = 64

// UseCase owns the listing lifecycle: registration, creation, purchase and
// reads. Every state change appends a fact to the log; operations against
// the same (creator, listingId) serialize on a striped key lock, so at most
// one purchase ever consumes a listing.
type UseCase struct {
	profiles  repository.ProfileRepository
	listings  repository.ListingRepository
	tokens    repository.TransactionalLedger
	facts     repository.FactLog
	collector domain.Identity
	logger    *zap.Logger

	stripes [lockStripes]sync.Mutex
}

// New wires the registry. collector is the registry's designated collection
// identity: buyers pre-approve it, and purchases spend through it.
func New(
	profiles repository.ProfileRepository,
	listings repository.ListingRepository,
	tokens repository.TransactionalLedger,
	facts repository.FactLog,
	collector domain.Identity,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		profiles:  profiles,
		listings:  listings,
		tokens:    tokens,
		facts:     facts,
		collector: collector,
		logger:    logger,
	}
}

// Collector is the identity buyers must approve before purchasing.
func (uc *UseCase) Collector() domain.Identity {
	return uc.collector
}

// CreateUser registers a profile one time per identity. Empty entries are
// filtered out of both sequences; order and duplicates are otherwise kept.
func (uc *UseCase) CreateUser(ctx context.Context, owner domain.Identity, languages, certifications []string) (*domain.Profile, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		Owner:          owner,
		Languages:      filterEmpty(languages),
		Certifications: filterEmpty(certifications),
	}

	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	if _, err := uc.facts.Append(ctx, domain.NewUserCreated(profile)); err != nil {
		if delErr := uc.profiles.Delete(ctx, owner); delErr != nil {
			uc.logger.Error("failed to roll back registration", zap.String("owner", owner.String()), zap.Error(delErr))
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to record registration", err)
	}

	uc.logger.Info("user registered", zap.String("owner", owner.String()))
	return profile, nil
}

// GetProfile is a pure directory read.
func (uc *UseCase) GetProfile(ctx context.Context, owner domain.Identity) (*domain.Profile, error) {
	return uc.profiles.Get(ctx, owner)
}

// CreateListing validates, assigns the next dense id for the creator and
// records a ListingCreated fact. A rejected listing consumes no id.
//
// The fact is appended inside the store's creation commit, so the listing
// only becomes visible once its creation is on the log. No purchase can
// observe the listing earlier, which keeps every ListingPurchased fact
// ordered after the ListingCreated it consumes.
func (uc *UseCase) CreateListing(ctx context.Context, creator domain.Identity, isTeaching bool, language string, rate uint64) (*domain.Listing, error) {
	listing := &domain.Listing{
		Creator:    creator,
		IsTeaching: isTeaching,
		Language:   strings.TrimSpace(language),
		Rate:       rate,
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	var ordinal uint64
	id, err := uc.listings.Create(ctx, listing, func(uint64) error {
		ord, appendErr := uc.facts.Append(ctx, domain.NewListingCreated(listing))
		if appendErr != nil {
			return domain.WrapError(domain.ErrCodeInternal, "failed to record listing", appendErr)
		}
		ordinal = ord
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("listing created",
		zap.String("creator", creator.String()),
		zap.Uint64("listing_id", id),
		zap.String("language", listing.Language),
		zap.Uint64("rate", rate),
		zap.Uint64("ordinal", ordinal))
	return listing, nil
}

// PurchaseListing moves rate tokens from buyer to creator and consumes the
// listing. The buyer is both allowance owner and token source; the registry's
// collector is the pre-approved spender. Transfer, fact append and state flip
// commit as one unit: a failed transfer leaves the listing active, a failed
// append leaves balances untouched.
func (uc *UseCase) PurchaseListing(ctx context.Context, buyer, creator domain.Identity, id uint64) (*domain.Listing, error) {
	if err := buyer.Validate(); err != nil {
		return nil, err
	}

	lock := uc.keyLock(creator, id)
	lock.Lock()
	defer lock.Unlock()

	listing, err := uc.listings.Get(ctx, creator, id)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, domain.ErrListingInactive
	}

	err = uc.tokens.TransferFromTx(ctx, uc.collector, buyer, creator, listing.Rate, func() error {
		if _, err := uc.facts.Append(ctx, domain.NewListingPurchased(buyer, listing)); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "failed to record purchase", err)
		}
		return uc.listings.Deactivate(ctx, creator, id)
	})
	if err != nil {
		return nil, err
	}

	listing.IsActive = false
	uc.logger.Info("listing purchased",
		zap.String("buyer", buyer.String()),
		zap.String("creator", creator.String()),
		zap.Uint64("listing_id", id),
		zap.Uint64("amount", listing.Rate))
	return listing, nil
}

// GetUserListings returns all of a creator's listings indexed by id in
// creation order.
func (uc *UseCase) GetUserListings(ctx context.Context, creator domain.Identity) ([]domain.Listing, error) {
	return uc.listings.ListByCreator(ctx, creator)
}

// GetListing reads a single listing with its live consumed/active state.
func (uc *UseCase) GetListing(ctx context.Context, creator domain.Identity, id uint64) (*domain.Listing, error) {
	return uc.listings.Get(ctx, creator, id)
}

func (uc *UseCase) keyLock(creator domain.Identity, id uint64) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s/%d", creator, id)
	return &uc.stripes[h.Sum32()%lockStripes]
}

func filterEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

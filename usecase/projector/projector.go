package projector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// Config controls how the projector polls the fact log.
type Config struct {
	Consumer  string
	Interval  time.Duration
	BatchSize int
}

// Projector folds the fact log into a materialized listing view. It is a
// single consumer: it reads strictly in ordinal order from its checkpoint,
// applies each fact idempotently and advances the checkpoint after every
// drained batch. It never mutates registry or ledger state, so any number
// of projectors with distinct consumer names may run side by side.
type Projector struct {
	log         repository.FactLog
	checkpoints repository.CheckpointStore
	view        repository.ListingView
	logger      *zap.Logger
	cron        *cron.Cron
	cfg         Config

	mu      sync.Mutex
	next    uint64
	applied map[string]uint64
}

// dedupWindow is how far back, in ordinals, the projector remembers applied
// fact keys. Replays only ever come from checkpoint redelivery at the tail of
// the log, so a bounded window is enough; it also caps the dedup map for the
// life of the process.
const dedupWindow = 4096

func New(
	log repository.FactLog,
	checkpoints repository.CheckpointStore,
	view repository.ListingView,
	logger *zap.Logger,
	cfg Config,
) *Projector {
	if cfg.Consumer == "" {
		cfg.Consumer = "discovery"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	// The cron schedule has whole-second resolution; anything finer would
	// truncate to a zero interval.
	if cfg.Interval < time.Second {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Projector{
		log:         log,
		checkpoints: checkpoints,
		view:        view,
		logger:      logger,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds()),
		applied:     make(map[string]uint64),
	}
}

// Start resumes from the stored checkpoint and launches the poll loop.
func (p *Projector) Start(ctx context.Context) error {
	ordinal, err := p.checkpoints.LoadCheckpoint(ctx, p.cfg.Consumer)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.next = ordinal + 1
	p.mu.Unlock()

	schedule := fmt.Sprintf("@every %ds", int(p.cfg.Interval.Seconds()))
	if _, err := p.cron.AddFunc(schedule, func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), p.cfg.Interval)
		defer cancel()
		if err := p.Drain(drainCtx); err != nil {
			p.logger.Error("projection drain failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule projection poll: %w", err)
	}

	p.cron.Start()
	p.logger.Info("projector started",
		zap.String("consumer", p.cfg.Consumer),
		zap.Uint64("from_ordinal", ordinal+1))
	return nil
}

// Stop gracefully stops the poll loop.
func (p *Projector) Stop(ctx context.Context) {
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	p.logger.Info("projector stopped", zap.String("consumer", p.cfg.Consumer))
}

// Drain folds all facts past the checkpoint into the view, one batch at a
// time, checkpointing after each batch.
func (p *Projector) Drain(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		facts, err := p.log.ReadFrom(ctx, p.next, p.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(facts) == 0 {
			return nil
		}

		for i := range facts {
			p.apply(ctx, &facts[i])
		}

		p.next = facts[len(facts)-1].Ordinal + 1
		if err := p.checkpoints.SaveCheckpoint(ctx, p.cfg.Consumer, p.next-1); err != nil {
			return err
		}
	}
}

// Rebuild drops the view and replays the whole log from the start. The
// result is identical to the live registry state at the replay horizon.
func (p *Projector) Rebuild(ctx context.Context) error {
	p.mu.Lock()
	if err := p.view.Reset(ctx); err != nil {
		p.mu.Unlock()
		return err
	}
	p.next = 1
	p.applied = make(map[string]uint64)
	p.mu.Unlock()

	return p.Drain(ctx)
}

// apply folds one fact into the view. It is total: a fact is either applied,
// skipped as a replay, or rejected and logged; no fact stops the fold.
func (p *Projector) apply(ctx context.Context, fact *domain.Fact) {
	key := fact.Key()
	if _, seen := p.applied[key]; seen {
		p.logger.Debug("skipping replayed fact", zap.String("key", key), zap.Uint64("ordinal", fact.Ordinal))
		return
	}

	switch fact.Kind {
	case domain.FactListingCreated:
		listing := &domain.Listing{
			ID:         fact.ListingID,
			Creator:    fact.Creator,
			IsTeaching: fact.IsTeaching,
			Language:   fact.Language,
			Rate:       fact.Rate,
			IsActive:   true,
			CreatedAt:  fact.RecordedAt,
		}
		if err := p.view.Put(ctx, listing); err != nil {
			p.logger.Error("failed to project listing", zap.String("key", key), zap.Error(err))
			return
		}

	case domain.FactListingPurchased:
		listing, err := p.view.Get(ctx, fact.Creator, fact.ListingID)
		if err != nil {
			// A purchase for a listing the fold has never seen violates log
			// ordering; it is rejected, never applied.
			p.logger.Error("rejecting purchase fact for unknown listing",
				zap.String("key", key),
				zap.Uint64("ordinal", fact.Ordinal),
				zap.Error(domain.ErrFactConflict))
			return
		}
		listing.IsActive = false
		if err := p.view.Put(ctx, listing); err != nil {
			p.logger.Error("failed to project purchase", zap.String("key", key), zap.Error(err))
			return
		}

	case domain.FactUserCreated:
		// Registrations do not affect the listing view.

	default:
		p.logger.Warn("ignoring unknown fact kind", zap.String("kind", string(fact.Kind)))
		return
	}

	p.markApplied(key, fact.Ordinal)
}

// markApplied remembers a fact key for replay detection and evicts keys that
// have fallen out of the dedup window, keeping the map bounded.
func (p *Projector) markApplied(key string, ordinal uint64) {
	p.applied[key] = ordinal
	if len(p.applied) <= dedupWindow {
		return
	}
	for k, ord := range p.applied {
		if ord+dedupWindow < ordinal {
			delete(p.applied, k)
		}
	}
}

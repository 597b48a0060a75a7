package repository

import (
	"context"

	"github.com/edulingo/backend/domain"
)

// FactLog is an append-only, strictly ordered record of registry facts.
// Append assigns the next ordinal (monotonic from 1), stamps it on the fact
// and returns it. ReadFrom returns up to limit facts with ordinal >= from,
// in ordinal order. LastOrdinal is the highest ordinal appended so far,
// zero for an empty log.
type FactLog interface {
	Append(ctx context.Context, fact *domain.Fact) (uint64, error)
	ReadFrom(ctx context.Context, from uint64, limit int) ([]domain.Fact, error)
	LastOrdinal(ctx context.Context) (uint64, error)
}

// CheckpointStore persists per-consumer resume points so a projector can
// re-subscribe without replaying the whole log. Load returns 0 for an
// unknown consumer, meaning start from the beginning.
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, consumer string, ordinal uint64) error
	LoadCheckpoint(ctx context.Context, consumer string) (uint64, error)
}

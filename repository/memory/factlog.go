package memory

import (
	"context"
	"sync"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// FactLog is an in-memory append-only log, used in tests and embedded runs.
// Ordinals start at 1 and are assigned under the log mutex, so appends are
// totally ordered.
type FactLog struct {
	mu          sync.RWMutex
	facts       []domain.Fact
	checkpoints map[string]uint64
}

func NewFactLog() *FactLog {
	return &FactLog{
		checkpoints: make(map[string]uint64),
	}
}

func (l *FactLog) Append(ctx context.Context, fact *domain.Fact) (uint64, error) {
	if fact == nil {
		return 0, domain.ErrInvalidPayload
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fact.Ordinal = uint64(len(l.facts)) + 1
	l.facts = append(l.facts, *fact)
	return fact.Ordinal, nil
}

func (l *FactLog) ReadFrom(ctx context.Context, from uint64, limit int) ([]domain.Fact, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if from == 0 {
		from = 1
	}
	if from > uint64(len(l.facts)) {
		return nil, nil
	}
	out := l.facts[from-1:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	copied := make([]domain.Fact, len(out))
	copy(copied, out)
	return copied, nil
}

func (l *FactLog) LastOrdinal(ctx context.Context) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.facts)), nil
}

func (l *FactLog) SaveCheckpoint(ctx context.Context, consumer string, ordinal uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.checkpoints[consumer] = ordinal
	return nil
}

func (l *FactLog) LoadCheckpoint(ctx context.Context, consumer string) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.checkpoints[consumer], nil
}

var (
	_ repository.FactLog         = (*FactLog)(nil)
	_ repository.CheckpointStore = (*FactLog)(nil)
)

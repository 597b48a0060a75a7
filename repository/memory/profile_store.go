package memory

import (
	"context"
	"sync"
	"time"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// ProfileStore is the in-memory user directory.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[domain.Identity]*domain.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[domain.Identity]*domain.Profile),
	}
}

func (s *ProfileStore) Get(ctx context.Context, owner domain.Identity) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[owner]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *ProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.Owner == "" {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.Owner]; ok {
		return domain.ErrUserAlreadyExists
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	copied := *profile
	s.profiles[profile.Owner] = &copied
	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, owner domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[owner]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.profiles, owner)
	return nil
}

var _ repository.ProfileRepository = (*ProfileStore)(nil)

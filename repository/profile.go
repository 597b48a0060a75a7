package repository

import (
	"context"

	"github.com/edulingo/backend/domain"
)

// ProfileRepository is the user directory. Create is one-time per identity
// and fails with domain.ErrUserAlreadyExists on re-registration. Delete
// exists only to compensate a registration whose fact could not be recorded.
type ProfileRepository interface {
	Get(ctx context.Context, owner domain.Identity) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, owner domain.Identity) error
}

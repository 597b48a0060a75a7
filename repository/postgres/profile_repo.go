package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulingo/backend/domain"
	"github.com/edulingo/backend/repository"
)

// uniqueViolation is the Postgres error code for duplicate primary keys.
const uniqueViolation = "23505"

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed user directory.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Get(ctx context.Context, owner domain.Identity) (*domain.Profile, error) {
	const query = `
	SELECT owner, languages, certifications, created_at
	FROM profiles
	WHERE owner = $1
	`
	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, string(owner)).Scan(
		&profile.Owner,
		&profile.Languages,
		&profile.Certifications,
		&profile.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.Owner == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO profiles (owner, languages, certifications)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		string(profile.Owner),
		profile.Languages,
		profile.Certifications,
	).Scan(&profile.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, owner domain.Identity) error {
	const query = `DELETE FROM profiles WHERE owner = $1`
	tag, err := r.pool.Exec(ctx, query, string(owner))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

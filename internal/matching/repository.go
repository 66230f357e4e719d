package matching

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository is the read-only data provider the engine consumes. The engine
// never writes through it; listing ownership, moderation, and schema are
// handled elsewhere.
type Repository interface {
	GetDogByID(ctx context.Context, id string) (*DogProfile, error)
	// GetActiveCandidatePool returns all ACTIVE listings, optionally
	// excluding one owner's dogs. The hard eligibility rules still run in
	// the engine; this only bounds the pool.
	GetActiveCandidatePool(ctx context.Context, excludeOwnerID string) ([]*DogProfile, error)
	GetActiveDogs(ctx context.Context) ([]*DogProfile, error)
	// CandidatePoolVersion returns an opaque token that changes whenever
	// the active pool changes. Used to key cached match results.
	CandidatePoolVersion(ctx context.Context) (string, error)
}

const dogColumns = `
	id, owner_id, name, breed, gender, age, weight, temperament,
	vaccinated, neutered, available, latitude, longitude, status,
	created_at, updated_at
`

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetDogByID(ctx context.Context, id string) (*DogProfile, error) {
	var dog DogProfile
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE id = $1`

	err := r.db.GetContext(ctx, &dog, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dog %s: %w", id, err)
	}

	return &dog, nil
}

func (r *postgresRepository) GetActiveCandidatePool(ctx context.Context, excludeOwnerID string) ([]*DogProfile, error) {
	var dogs []*DogProfile
	query := `SELECT ` + dogColumns + ` FROM dogs WHERE status = $1`
	args := []interface{}{StatusActive}

	if excludeOwnerID != "" {
		query += ` AND owner_id <> $2`
		args = append(args, excludeOwnerID)
	}

	if err := r.db.SelectContext(ctx, &dogs, query, args...); err != nil {
		return nil, fmt.Errorf("get candidate pool: %w", err)
	}

	return dogs, nil
}

func (r *postgresRepository) GetActiveDogs(ctx context.Context) ([]*DogProfile, error) {
	return r.GetActiveCandidatePool(ctx, "")
}

func (r *postgresRepository) CandidatePoolVersion(ctx context.Context) (string, error) {
	var version string
	query := `
		SELECT COUNT(*)::TEXT || ':' || COALESCE(MAX(EXTRACT(EPOCH FROM updated_at))::TEXT, '0')
		FROM dogs
		WHERE status = $1
	`

	if err := r.db.GetContext(ctx, &version, query, StatusActive); err != nil {
		return "", fmt.Errorf("get candidate pool version: %w", err)
	}

	return version, nil
}

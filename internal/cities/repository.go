package cities

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huertohogar/huertohogar/internal/shared"
)

// RepositoryPort defines data access methods for cities.
type RepositoryPort interface {
	List(ctx context.Context) ([]City, error)
	ListByRegion(ctx context.Context, regionID int64) ([]City, error)
	GetByID(ctx context.Context, id int64) (*City, error)
	Create(ctx context.Context, city *City) (int64, error)
	Update(ctx context.Context, city *City) error
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all cities ordered by name.
func (r *Repository) List(ctx context.Context) ([]City, error) {
	return r.query(ctx, `SELECT id, name, region_id FROM cities ORDER BY name`)
}

// ListByRegion returns the cities of one region.
func (r *Repository) ListByRegion(ctx context.Context, regionID int64) ([]City, error) {
	return r.query(ctx, `SELECT id, name, region_id FROM cities WHERE region_id = $1 ORDER BY name`, regionID)
}

// GetByID fetches a city by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*City, error) {
	var city City
	err := r.pool.QueryRow(ctx, `SELECT id, name, region_id FROM cities WHERE id = $1`, id).
		Scan(&city.ID, &city.Name, &city.RegionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &city, nil
}

// Create inserts a new city and returns its id.
func (r *Repository) Create(ctx context.Context, city *City) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO cities (name, region_id) VALUES ($1, $2) RETURNING id`,
		city.Name, city.RegionID).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update persists name and region of an existing city.
func (r *Repository) Update(ctx context.Context, city *City) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cities SET name = $2, region_id = $3 WHERE id = $1`,
		city.ID, city.Name, city.RegionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a city by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]City, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []City
	for rows.Next() {
		var city City
		if err := rows.Scan(&city.ID, &city.Name, &city.RegionID); err != nil {
			return nil, err
		}
		out = append(out, city)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ RepositoryPort = (*Repository)(nil)

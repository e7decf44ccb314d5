package regions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huertohogar/huertohogar/internal/shared"
)

// RepositoryPort defines data access methods for regions.
type RepositoryPort interface {
	List(ctx context.Context) ([]Region, error)
	GetByID(ctx context.Context, id int64) (*Region, error)
	Create(ctx context.Context, name string) (*Region, error)
	Update(ctx context.Context, id int64, name string) (*Region, error)
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

// List returns all regions ordered by name.
func (r *Repository) List(ctx context.Context) ([]Region, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM regions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Region
	for rows.Next() {
		var region Region
		if err := rows.Scan(&region.ID, &region.Name); err != nil {
			return nil, err
		}
		out = append(out, region)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a region by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Region, error) {
	var region Region
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM regions WHERE id = $1`, id).
		Scan(&region.ID, &region.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &region, nil
}

// Create inserts a new region.
func (r *Repository) Create(ctx context.Context, name string) (*Region, error) {
	region := Region{Name: name}
	err := r.pool.QueryRow(ctx, `INSERT INTO regions (name) VALUES ($1) RETURNING id`, name).
		Scan(&region.ID)
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// Update renames an existing region.
func (r *Repository) Update(ctx context.Context, id int64, name string) (*Region, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE regions SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return &Region{ID: id, Name: name}, nil
}

// Delete removes a region by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)

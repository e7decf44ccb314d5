package regions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huertohogar/huertohogar/internal/platform/cache"
	"github.com/huertohogar/huertohogar/internal/shared"
)

const listCacheKey = "regions:all"

// Service handles region business logic. The listing is read-through cached;
// writes invalidate the cache.
type Service struct {
	repo  RepositoryPort
	cache *cache.Cache
}

// NewService builds a Service instance. The cache may be nil.
func NewService(repo RepositoryPort, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns all regions.
func (s *Service) List(ctx context.Context) ([]Region, error) {
	var out []Region
	err := s.cache.FetchJSON(ctx, listCacheKey, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one region by id.
func (s *Service) Get(ctx context.Context, id int64) (*Region, error) {
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether a region id refers to a stored region.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a region after validating its name.
func (s *Service) Create(ctx context.Context, name string) (*Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: region name is required", shared.ErrValidation)
	}
	region, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, listCacheKey)
	return region, nil
}

// Update renames a region.
func (s *Service) Update(ctx context.Context, id int64, name string) (*Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: region name is required", shared.ErrValidation)
	}
	region, err := s.repo.Update(ctx, id, name)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, listCacheKey)
	return region, nil
}

// Delete removes a region.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Invalidate(ctx, listCacheKey)
	return nil
}

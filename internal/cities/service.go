package cities

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/huertohogar/huertohogar/internal/platform/cache"
	"github.com/huertohogar/huertohogar/internal/shared"
)

const listCacheKey = "cities:all"

func regionCacheKey(regionID int64) string {
	return "cities:region:" + strconv.FormatInt(regionID, 10)
}

// RegionChecker verifies that a referenced region exists.
type RegionChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles city business logic.
type Service struct {
	repo    RepositoryPort
	regions RegionChecker
	cache   *cache.Cache
}

// NewService builds a Service instance. The cache may be nil.
func NewService(repo RepositoryPort, regions RegionChecker, c *cache.Cache) *Service {
	return &Service{repo: repo, regions: regions, cache: c}
}

// List returns all cities.
func (s *Service) List(ctx context.Context) ([]City, error) {
	var out []City
	err := s.cache.FetchJSON(ctx, listCacheKey, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRegion returns the cities of one region.
func (s *Service) ListByRegion(ctx context.Context, regionID int64) ([]City, error) {
	var out []City
	err := s.cache.FetchJSON(ctx, regionCacheKey(regionID), &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListByRegion(ctx, regionID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one city by id.
func (s *Service) Get(ctx context.Context, id int64) (*City, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts a city after validating its name and region.
func (s *Service) Create(ctx context.Context, name string, regionID int64) (*City, error) {
	name = strings.TrimSpace(name)
	if err := s.validate(ctx, name, regionID); err != nil {
		return nil, err
	}
	city := &City{Name: name, RegionID: regionID}
	id, err := s.repo.Create(ctx, city)
	if err != nil {
		return nil, err
	}
	city.ID = id
	s.invalidate(ctx, regionID)
	return city, nil
}

// Update replaces name and region of an existing city.
func (s *Service) Update(ctx context.Context, id int64, name string, regionID int64) (*City, error) {
	name = strings.TrimSpace(name)
	if err := s.validate(ctx, name, regionID); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	city := &City{ID: id, Name: name, RegionID: regionID}
	if err := s.repo.Update(ctx, city); err != nil {
		return nil, err
	}
	s.invalidate(ctx, current.RegionID, regionID)
	return city, nil
}

// Delete removes a city.
func (s *Service) Delete(ctx context.Context, id int64) error {
	city, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, city.RegionID)
	return nil
}

func (s *Service) validate(ctx context.Context, name string, regionID int64) error {
	if name == "" {
		return fmt.Errorf("%w: city name is required", shared.ErrValidation)
	}
	if regionID <= 0 {
		return fmt.Errorf("%w: region id is required", shared.ErrValidation)
	}
	exists, err := s.regions.Exists(ctx, regionID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: region %d does not exist", shared.ErrValidation, regionID)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, regionIDs ...int64) {
	keys := []string{listCacheKey}
	for _, id := range regionIDs {
		keys = append(keys, regionCacheKey(id))
	}
	_ = s.cache.Invalidate(ctx, keys...)
}

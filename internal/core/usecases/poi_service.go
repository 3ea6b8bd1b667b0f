package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// POIService handles point-of-interest business logic.
type POIService struct {
	pois   ports.POIRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewPOIService creates a new POIService.
func NewPOIService(pois ports.POIRepository, cache ports.CacheService, events ports.EventPublisher) *POIService {
	return &POIService{pois: pois, cache: cache, events: events}
}

// List returns POIs matching the query.
func (s *POIService) List(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
	if q.Limit <= 0 || q.Limit > 1000 {
		q.Limit = 1000
	}

	cacheKey := listCacheKey("pois", q)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var pois []domain.Place
			if err := json.Unmarshal(data, &pois); err == nil {
				return pois, nil
			}
		}
	}

	pois, err := s.pois.List(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(pois); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return pois, nil
}

// ListByCategory returns POIs of one category.
func (s *POIService) ListByCategory(ctx context.Context, category string, limit int) ([]domain.Place, error) {
	if !domain.ValidPOICategory(category) {
		return nil, fmt.Errorf("unknown poi category %q", category)
	}
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	return s.pois.ListByCategory(ctx, category, limit)
}

// GetByID returns a single POI.
func (s *POIService) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	cacheKey := "pois:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var poi domain.Place
			if err := json.Unmarshal(data, &poi); err == nil {
				return &poi, nil
			}
		}
	}

	poi, err := s.pois.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(poi); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return poi, nil
}

// Save validates and upserts a POI, then publishes an update event.
func (s *POIService) Save(ctx context.Context, poi *domain.Place) error {
	if poi.Name == "" {
		return fmt.Errorf("poi name must not be empty")
	}
	if !domain.ValidPOICategory(poi.Category) {
		return fmt.Errorf("unknown poi category %q", poi.Category)
	}
	poi.Kind = domain.KindPOI

	if err := s.pois.Upsert(ctx, poi); err != nil {
		return fmt.Errorf("upsert poi: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "pois:id:"+poi.ID)
	}
	if s.events != nil {
		_ = s.events.PublishPOIUpdated(ctx, poi)
	}
	return nil
}

// SaveBatch upserts POIs in bulk.
func (s *POIService) SaveBatch(ctx context.Context, pois []domain.Place) error {
	if len(pois) == 0 {
		return nil
	}
	if err := s.pois.UpsertBatch(ctx, pois); err != nil {
		return fmt.Errorf("upsert poi batch: %w", err)
	}
	return nil
}

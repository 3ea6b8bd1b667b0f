package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// DormService handles dorm-related business logic.
type DormService struct {
	dorms  ports.DormRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewDormService creates a new DormService.
func NewDormService(dorms ports.DormRepository, cache ports.CacheService, events ports.EventPublisher) *DormService {
	return &DormService{dorms: dorms, cache: cache, events: events}
}

// List returns dorms matching the query.
func (s *DormService) List(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
	if q.Limit <= 0 || q.Limit > 1000 {
		q.Limit = 1000
	}

	// Try cache
	cacheKey := listCacheKey("dorms", q)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var dorms []domain.Place
			if err := json.Unmarshal(data, &dorms); err == nil {
				return dorms, nil
			}
		}
	}

	dorms, err := s.dorms.List(ctx, q)
	if err != nil {
		return nil, err
	}

	// Short TTL: listings go stale on any upsert and we don't track list keys
	if s.cache != nil {
		if data, err := json.Marshal(dorms); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return dorms, nil
}

// GetByID returns a single dorm.
func (s *DormService) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	cacheKey := "dorms:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var dorm domain.Place
			if err := json.Unmarshal(data, &dorm); err == nil {
				return &dorm, nil
			}
		}
	}

	dorm, err := s.dorms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(dorm); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return dorm, nil
}

// Save validates and upserts a dorm, then publishes an update event.
func (s *DormService) Save(ctx context.Context, dorm *domain.Place) error {
	if dorm.Name == "" {
		return fmt.Errorf("dorm name must not be empty")
	}
	dorm.Kind = domain.KindDorm
	if dorm.Category == "" {
		dorm.Category = "dorm"
	}

	if err := s.dorms.Upsert(ctx, dorm); err != nil {
		return fmt.Errorf("upsert dorm: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "dorms:id:"+dorm.ID)
	}
	if s.events != nil {
		_ = s.events.PublishDormUpdated(ctx, dorm)
	}
	return nil
}

// SaveBatch upserts dorms in bulk. Used by the seeder; no per-record events.
func (s *DormService) SaveBatch(ctx context.Context, dorms []domain.Place) error {
	if len(dorms) == 0 {
		return nil
	}
	if err := s.dorms.UpsertBatch(ctx, dorms); err != nil {
		return fmt.Errorf("upsert dorm batch: %w", err)
	}
	return nil
}

// Delete removes a dorm and publishes an update event.
func (s *DormService) Delete(ctx context.Context, id string) error {
	dorm, err := s.dorms.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dorms.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dorm: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "dorms:id:"+id)
	}
	if s.events != nil {
		_ = s.events.PublishDormUpdated(ctx, dorm)
	}
	return nil
}

func listCacheKey(kind string, q ports.PlaceQuery) string {
	bounds := ""
	if q.Bounds != nil {
		bounds = fmt.Sprintf("%.4f:%.4f:%.4f:%.4f", q.Bounds.North, q.Bounds.South, q.Bounds.East, q.Bounds.West)
	}
	return fmt.Sprintf("%s:list:%s:%v:%v:%s:%d:%d", kind, q.Text, q.Types, q.Categories, bounds, q.Limit, q.Offset)
}

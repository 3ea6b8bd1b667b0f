package ports

import (
	"context"

	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// PlaceQuery narrows repository listings. Zero value means no filtering.
type PlaceQuery struct {
	Text       string
	Types      []string
	Categories []string
	Bounds     *domain.Bounds
	Limit      int
	Offset     int
}

// DormRepository persists dorms.
type DormRepository interface {
	Upsert(ctx context.Context, dorm *domain.Place) error
	UpsertBatch(ctx context.Context, dorms []domain.Place) error
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	List(ctx context.Context, q PlaceQuery) ([]domain.Place, error)
	Delete(ctx context.Context, id string) error
}

// POIRepository persists points of interest around campus.
type POIRepository interface {
	Upsert(ctx context.Context, poi *domain.Place) error
	UpsertBatch(ctx context.Context, pois []domain.Place) error
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	List(ctx context.Context, q PlaceQuery) ([]domain.Place, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]domain.Place, error)
	Delete(ctx context.Context, id string) error
}

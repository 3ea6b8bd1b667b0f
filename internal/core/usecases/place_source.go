package usecases

import (
	"context"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// PlaceSource feeds live sessions from the dorm and POI services, so session
// fetches share the read-through cache with the REST surface.
type PlaceSource struct {
	dorms *DormService
	pois  *POIService
	limit int
}

// NewPlaceSource creates a PlaceSource. limit caps each of the two sets.
func NewPlaceSource(dorms *DormService, pois *POIService, limit int) *PlaceSource {
	return &PlaceSource{dorms: dorms, pois: pois, limit: limit}
}

// FetchPlaces returns the dorm and POI sets for a session query. The query
// narrows dorms only; POIs are always the full campus set, since the POI
// layer is driven by category toggles rather than text search.
func (s *PlaceSource) FetchPlaces(ctx context.Context, query string) (dorms, pois []domain.Place, err error) {
	dorms, err = s.dorms.List(ctx, ports.PlaceQuery{Text: query, Limit: s.limit})
	if err != nil {
		return nil, nil, err
	}
	pois, err = s.pois.List(ctx, ports.PlaceQuery{Limit: s.limit})
	if err != nil {
		return nil, nil, err
	}
	return dorms, pois, nil
}

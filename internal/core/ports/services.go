package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// ErrNoRouteFound means the routing engine answered but found no walkable
// path between the endpoints.
var ErrNoRouteFound = errors.New("no route found")

// RouteStatusError is a non-2xx answer from the routing engine.
type RouteStatusError struct {
	Code int
}

func (e *RouteStatusError) Error() string {
	return fmt.Sprintf("routing engine returned status %d", e.Code)
}

// Route is a computed walking route.
type Route struct {
	Points    []domain.GeoPoint
	DistanceM float64
	DurationS float64
}

// RouteFinder computes walking routes between two points.
type RouteFinder interface {
	WalkingRoute(ctx context.Context, from, to domain.GeoPoint) (*Route, error)
}

// PlaceSource feeds sessions with the dorm and POI sets for a query.
type PlaceSource interface {
	FetchPlaces(ctx context.Context, query string) (dorms, pois []domain.Place, err error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishDormUpdated(ctx context.Context, dorm *domain.Place) error
	PublishPOIUpdated(ctx context.Context, poi *domain.Place) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeDormUpdates(ctx context.Context, handler func(ctx context.Context, dorm *domain.Place) error) error
	SubscribePOIUpdates(ctx context.Context, handler func(ctx context.Context, poi *domain.Place) error) error
}

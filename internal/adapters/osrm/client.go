// Package osrm talks to an OSRM-compatible routing service over HTTP.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
	"github.com/muhunXD/dormfinder/internal/pkg/metrics"
)

// Client implements ports.RouteFinder against the OSRM HTTP API.
type Client struct {
	baseURL    string
	snapRadius float64
	http       *fasthttp.Client
	timeout    time.Duration
}

// New creates a Client. baseURL is the OSRM root, e.g.
// "https://routing.openstreetmap.de/routed-foot". snapRadius bounds how far
// an endpoint may snap to the road network, in meters.
func New(baseURL string, snapRadius float64, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		snapRadius: snapRadius,
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout: timeout,
	}
}

// WalkingRoute computes a foot route between two points.
func (c *Client) WalkingRoute(ctx context.Context, from, to domain.GeoPoint) (route *ports.Route, err error) {
	metrics.RouteLookups.Inc()
	start := time.Now()
	defer func() {
		metrics.RouteLookupDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RouteLookupErrors.Inc()
		}
	}()

	url := c.routeURL(from, to)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("osrm request: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &ports.RouteStatusError{Code: resp.StatusCode()}
	}

	return parseRouteResponse(resp.Body())
}

// routeURL builds the OSRM route request. OSRM takes lng,lat pairs.
func (c *Client) routeURL(from, to domain.GeoPoint) string {
	radius := strconv.FormatFloat(c.snapRadius, 'f', -1, 64)
	return fmt.Sprintf(
		"%s/route/v1/foot/%s,%s;%s,%s?overview=full&geometries=geojson&steps=false&radiuses=%s;%s",
		c.baseURL,
		coord(from.Lon), coord(from.Lat),
		coord(to.Lon), coord(to.Lat),
		radius, radius,
	)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// parseRouteResponse decodes an OSRM route body into ports.Route, converting
// GeoJSON (lng,lat) pairs to GeoPoints.
func parseRouteResponse(body []byte) (*ports.Route, error) {
	var rr routeResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("decode osrm response: %w", err)
	}
	if rr.Code != "Ok" || len(rr.Routes) == 0 {
		return nil, ports.ErrNoRouteFound
	}

	best := rr.Routes[0]
	if len(best.Geometry.Coordinates) == 0 {
		return nil, ports.ErrNoRouteFound
	}

	points := make([]domain.GeoPoint, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			continue
		}
		points = append(points, domain.GeoPoint{Lat: pair[1], Lon: pair[0]})
	}
	if len(points) == 0 {
		return nil, ports.ErrNoRouteFound
	}

	return &ports.Route{
		Points:    points,
		DistanceM: best.Distance,
		DurationS: best.Duration,
	}, nil
}

// Package session binds the normalizer output, filter engine, comparison
// coordinator, route workflow and suggestion selector into one per-client
// state machine. Each connected client gets its own Controller; a single
// mutex serializes UI events, debounce firings and fetch completions.
package session

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/muhunXD/dormfinder/internal/core/compare"
	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/filter"
	"github.com/muhunXD/dormfinder/internal/core/ports"
	"github.com/muhunXD/dormfinder/internal/core/routeplan"
	"github.com/muhunXD/dormfinder/internal/core/suggest"
)

// Config carries the tunables a controller needs. All fields are required.
type Config struct {
	Anchor            domain.GeoPoint
	Gate              domain.GeoPoint
	PriceTolerance    float64
	DistanceBand      float64
	MaxDistance       float64
	RecommendationCap int
	MatchCap          int
	Debounce          time.Duration
	RandSeed          int64
}

// Snapshot is the full client-facing state after an event has been applied.
// It is pushed to the session's update callback.
type Snapshot struct {
	Query        string                  `json:"query"`
	Filters      domain.FilterSpec       `json:"filters"`
	Dorms        []domain.Place          `json:"dorms"`
	POIs         []domain.Place          `json:"pois"`
	Suggestions  []domain.Place          `json:"suggestions"`
	SelectedID   string                  `json:"selectedId,omitempty"`
	Comparison   *domain.ComparisonState `json:"comparison,omitempty"`
	ComparePhase string                  `json:"comparePhase"`
	Route        domain.RouteState       `json:"route"`
	Loading      bool                    `json:"loading"`
	FetchError   string                  `json:"fetchError,omitempty"`
}

// Controller is one client session. All exported methods are safe for
// concurrent use; internally a single mutex enforces the one-event-at-a-time
// discipline the state machine assumes.
type Controller struct {
	mu sync.Mutex

	cfg      Config
	source   ports.PlaceSource
	routes   ports.RouteFinder
	log      *slog.Logger
	onUpdate func(Snapshot)

	engine   filter.Engine
	selector suggest.Selector
	comparer compare.Coordinator
	route    routeplan.Workflow

	query      string
	filters    domain.FilterSpec
	dorms      []domain.Place
	pois       []domain.Place
	selectedID string

	fetchGen   uint64
	loading    bool
	fetchError string
	debounce   *time.Timer
	closed     bool
}

// New builds a controller. onUpdate receives a snapshot after every state
// change; it is called with the controller lock held, so it must not call
// back into the controller.
func New(cfg Config, source ports.PlaceSource, routes ports.RouteFinder, log *slog.Logger, onUpdate func(Snapshot)) *Controller {
	c := &Controller{
		cfg:      cfg,
		source:   source,
		routes:   routes,
		log:      log,
		onUpdate: onUpdate,
		engine: filter.Engine{
			PriceTolerance: cfg.PriceTolerance,
			DistanceBand:   cfg.DistanceBand,
			Anchor:         cfg.Anchor,
		},
		selector: suggest.Selector{
			RecommendationCap: cfg.RecommendationCap,
			MatchCap:          cfg.MatchCap,
			Rand:              rand.New(rand.NewSource(cfg.RandSeed)),
		},
		filters: domain.FilterSpec{
			Amenities:  map[string]bool{},
			Categories: map[string]bool{},
		},
	}
	return c
}

// Start performs the initial data fetch.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginFetch(ctx)
}

// Close stops the debounce timer and fences out in-flight work. Further
// events are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.fetchGen++
	c.route.Reset()
}

// SetQuery updates the search text. The refetch is debounced: only the last
// change within the window triggers a request.
func (c *Controller) SetQuery(ctx context.Context, q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || q == c.query {
		return
	}
	c.query = q
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.Debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.beginFetch(ctx)
	})
	c.emit()
}

// SetPriceFilter sets or clears the price bounds.
func (c *Controller) SetPriceFilter(min, max *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters.PriceMin = min
	c.filters.PriceMax = max
	c.applyFilterChange()
}

// SetDistanceFilter sets or clears the proximity-band distance target.
// Non-finite or negative values clear the filter; values above the configured
// maximum are clamped to it.
func (c *Controller) SetDistanceFilter(maxM *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if maxM != nil {
		v := *maxM
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0) || v < 0:
			maxM = nil
		case c.cfg.MaxDistance > 0 && v > c.cfg.MaxDistance:
			v = c.cfg.MaxDistance
			maxM = &v
		default:
			maxM = &v
		}
	}
	c.filters.DistanceMaxM = maxM
	c.applyFilterChange()
}

// ToggleAmenity flips an amenity key on or off.
func (c *Controller) ToggleAmenity(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || key == "" {
		return
	}
	if c.filters.Amenities[key] {
		delete(c.filters.Amenities, key)
	} else {
		c.filters.Amenities[key] = true
	}
	c.applyFilterChange()
}

// ToggleCategory flips a POI category on or off.
func (c *Controller) ToggleCategory(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || key == "" {
		return
	}
	if c.filters.Categories[key] {
		delete(c.filters.Categories, key)
	} else {
		c.filters.Categories[key] = true
	}
	c.applyFilterChange()
}

// ResetFilters clears every active filter.
func (c *Controller) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters = domain.FilterSpec{
		Amenities:  map[string]bool{},
		Categories: map[string]bool{},
	}
	c.applyFilterChange()
}

// Select marks a visible place as selected; selecting the current selection
// clears it.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if id == "" || id == c.selectedID {
		c.selectedID = ""
		c.syncRouteLocked()
		c.emit()
		return
	}
	if c.findVisible(id) == nil {
		return
	}
	c.selectedID = id
	c.syncRouteLocked()
	c.emit()
}

// syncRouteLocked resets the route overlay when the selection has moved away
// from its subject; the bumped generation fences any in-flight lookup.
func (c *Controller) syncRouteLocked() {
	subject := c.route.State().SubjectID
	if subject == "" {
		return
	}
	if c.selectedID == "" {
		c.route.Reset()
		return
	}
	sel := c.findVisible(c.selectedID)
	if sel == nil || sel.RouteIdentifier() != subject {
		c.route.Reset()
	}
}

// CompareStart begins a comparison with the given filtered dorm as base.
func (c *Controller) CompareStart(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	base := c.findIn(c.filteredDorms(), id)
	if base == nil {
		return
	}
	if c.comparer.Start(base) {
		c.emit()
	}
}

// CompareConfirm resolves the pending comparison against a filtered dorm.
func (c *Controller) CompareConfirm(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.comparer.Confirm(id, c.filteredDorms()) {
		c.emit()
	}
}

// CompareCancel discards any comparison state.
func (c *Controller) CompareCancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.comparer.Cancel()
	c.emit()
}

// RequestRoute toggles the walking-route overlay for a filtered dorm. The
// route runs from the dorm to the campus back gate.
func (c *Controller) RequestRoute(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	subject := c.findIn(c.filteredDorms(), id)
	if subject == nil {
		return
	}
	gen, start := c.route.Request(subject.RouteIdentifier())
	if !start {
		c.emit()
		return
	}
	go c.fetchRoute(ctx, gen, subject.Location)
	c.emit()
}

// SearchSubmit resolves the query to a dorm and selects it. The current
// suggestion list takes priority over raw prefix/substring matching.
func (c *Controller) SearchSubmit(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	dorms := c.visibleDorms()
	hit := suggest.Resolve(q, c.suggestions(dorms), dorms)
	if hit == nil {
		return
	}
	c.selectedID = hit.ID
	c.syncRouteLocked()
	c.emit()
}

// Refresh refetches the place sets for the current query. Called when a
// place-update event arrives from the broker.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.beginFetch(ctx)
}

// Snapshot returns the current client-facing state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// beginFetch starts a data fetch for the current query. An in-flight fetch
// is superseded, not awaited: only the newest generation may write state.
func (c *Controller) beginFetch(ctx context.Context) {
	c.fetchGen++
	gen := c.fetchGen
	c.loading = true
	c.fetchError = ""
	query := c.query
	go func() {
		dorms, pois, err := c.source.FetchPlaces(ctx, query)
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.fetchGen || c.closed {
			return
		}
		c.loading = false
		if err != nil {
			c.fetchError = "ไม่สามารถโหลดข้อมูลได้ในขณะนี้"
			c.log.Error("place fetch failed", "query", query, "error", err)
			c.emit()
			return
		}
		c.dorms = dorms
		c.pois = pois
		c.cascadeLocked()
		c.emit()
	}()
	c.emit()
}

func (c *Controller) fetchRoute(ctx context.Context, gen uint64, from domain.GeoPoint) {
	route, err := c.routes.WalkingRoute(ctx, from, c.cfg.Gate)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	var applied bool
	if err != nil {
		applied = c.route.Complete(gen, nil, nil, nil, err)
	} else {
		applied = c.route.Complete(gen, route.Points, &route.DistanceM, &route.DurationS, nil)
	}
	if applied {
		c.emit()
	}
}

// applyFilterChange recomputes visibility and runs the invalidation
// cascades, then emits.
func (c *Controller) applyFilterChange() {
	c.cascadeLocked()
	c.emit()
}

// cascadeLocked drops selection, comparison and route state that the new
// filtered set no longer supports.
func (c *Controller) cascadeLocked() {
	if c.selectedID != "" {
		if c.findIn(c.visiblePlaces(), c.selectedID) == nil {
			c.selectedID = ""
			c.route.Reset()
		}
	}
	filtered := c.filteredDorms()
	c.comparer.Revalidate(filtered)
	c.route.Invalidate(func(id string) bool {
		for i := range filtered {
			if filtered[i].RouteIdentifier() == id {
				return true
			}
		}
		return false
	})
}

// filteredDorms applies the dorm-attribute filters without the marker
// visibility toggles. Comparison and routing run on this set.
func (c *Controller) filteredDorms() []domain.Place {
	return c.engine.Apply(c.dorms, c.filters)
}

func (c *Controller) visibleDorms() []domain.Place {
	if !filter.ShowDorms(c.filters) {
		return nil
	}
	return c.filteredDorms()
}

func (c *Controller) visiblePlaces() []domain.Place {
	dorms := c.visibleDorms()
	pois := filter.VisiblePOIs(c.pois, c.filters)
	out := make([]domain.Place, 0, len(dorms)+len(pois))
	out = append(out, dorms...)
	out = append(out, pois...)
	return out
}

func (c *Controller) suggestions(visible []domain.Place) []domain.Place {
	if c.query == "" {
		return c.selector.Recommendations(visible)
	}
	return c.selector.Matches(c.query, visible)
}

func (c *Controller) findVisible(id string) *domain.Place {
	return c.findIn(c.visiblePlaces(), id)
}

func (c *Controller) findIn(places []domain.Place, id string) *domain.Place {
	if id == "" {
		return nil
	}
	for i := range places {
		if places[i].ID == id || places[i].RouteIdentifier() == id {
			return &places[i]
		}
	}
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	dorms := c.visibleDorms()
	markers := dorms
	pois := filter.VisiblePOIs(c.pois, c.filters)
	// Compare mode browses dorms only, regardless of the marker toggles.
	if c.comparer.Phase() != compare.PhaseIdle {
		markers = c.filteredDorms()
		pois = nil
	}
	// A route narrows the map to its subject.
	if rs := c.route.State(); rs.SubjectID != "" {
		pois = nil
		if subj := c.findIn(markers, rs.SubjectID); subj != nil {
			markers = []domain.Place{*subj}
		} else {
			markers = nil
		}
	}
	return Snapshot{
		Query:        c.query,
		Filters:      c.filters,
		Dorms:        markers,
		POIs:         pois,
		Suggestions:  c.suggestions(dorms),
		SelectedID:   c.selectedID,
		Comparison:   c.comparer.Summary(c.filteredDorms()),
		ComparePhase: comparePhaseName(c.comparer.Phase()),
		Route:        c.route.State(),
		Loading:      c.loading,
		FetchError:   c.fetchError,
	}
}

func (c *Controller) emit() {
	if c.onUpdate == nil {
		return
	}
	c.onUpdate(c.snapshotLocked())
}

func comparePhaseName(p compare.Phase) string {
	switch p {
	case compare.PhaseSelectingTarget:
		return "selectingTarget"
	case compare.PhaseResolved:
		return "resolved"
	default:
		return "idle"
	}
}

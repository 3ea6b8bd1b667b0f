// Package filter derives the visible marker sets from the fetched places
// and the active filter specification.
package filter

import (
	"math"
	"strings"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/pkg/geospatial"
)

// Engine applies the compound dorm/POI filters. Price and distance
// thresholds are softened by fixed tolerance bands; category toggles are
// exact membership.
type Engine struct {
	// PriceTolerance widens both price bounds (currency units).
	PriceTolerance float64
	// DistanceBand is the proximity band around the distance target. A
	// dorm passes when |distance - target| < DistanceBand (strict) — the
	// slider value is a desired distance, not a ceiling.
	DistanceBand float64
	// Anchor is the campus reference point used when a dorm carries no
	// explicit distance metadata.
	Anchor domain.GeoPoint
}

// Apply returns the dorms passing every active dorm-attribute filter.
// Deterministic and side-effect free; with no dorm filters active the
// input is returned unchanged.
func (e Engine) Apply(dorms []domain.Place, spec domain.FilterSpec) []domain.Place {
	if !spec.DormFiltersActive() {
		return dorms
	}
	out := make([]domain.Place, 0, len(dorms))
	for _, d := range dorms {
		if e.passes(&d, spec) {
			out = append(out, d)
		}
	}
	return out
}

func (e Engine) passes(d *domain.Place, spec domain.FilterSpec) bool {
	if spec.PriceActive() && !e.passesPrice(d, spec) {
		return false
	}
	if spec.DistanceActive() && !e.passesDistance(d, spec) {
		return false
	}
	if spec.AmenitiesActive() && !passesAmenities(d, spec) {
		return false
	}
	return true
}

// passesPrice checks whether the dorm's effective [min,max] intersects the
// query range widened by the tolerance. Dorms with no resolvable price
// fail while the price filter is active.
func (e Engine) passesPrice(d *domain.Place, spec domain.FilterSpec) bool {
	lo, hi := d.Price.EffectiveBounds()
	if lo == nil || hi == nil {
		return false
	}
	if spec.PriceMin != nil {
		bound := *spec.PriceMin - e.PriceTolerance
		if bound < 0 {
			bound = 0
		}
		if *hi < bound {
			return false
		}
	}
	if spec.PriceMax != nil {
		if *lo > *spec.PriceMax+e.PriceTolerance {
			return false
		}
	}
	return true
}

func (e Engine) passesDistance(d *domain.Place, spec domain.FilterSpec) bool {
	m := e.ResolveDistance(d)
	if m == nil {
		return false
	}
	return math.Abs(*m-*spec.DistanceMaxM) < e.DistanceBand
}

// ResolveDistance returns the dorm's distance to the anchor: stored
// metadata when present, great-circle fallback otherwise.
func (e Engine) ResolveDistance(d *domain.Place) *float64 {
	if d == nil {
		return nil
	}
	if d.DistanceM != nil {
		return d.DistanceM
	}
	m := geospatial.Haversine(d.Location.Lat, d.Location.Lon, e.Anchor.Lat, e.Anchor.Lon)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return nil
	}
	return &m
}

// passesAmenities requires every requested key to substring-match at least
// one of the dorm's normalized amenity tokens. Dorms with zero tokens fail
// while the amenity filter is active.
func passesAmenities(d *domain.Place, spec domain.FilterSpec) bool {
	if len(d.Amenities) == 0 {
		return false
	}
	// Tokens are already lower-cased by the normalizer; keys come from a
	// fixed lower-case vocabulary.
	for _, key := range spec.AmenityKeys() {
		matched := false
		for _, token := range d.Amenities {
			if strings.Contains(token, key) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// ShowDorms reports whether dorm markers are visible: always while a
// dorm-attribute filter is active, otherwise unless category toggles are
// on without the dorm toggle.
func ShowDorms(spec domain.FilterSpec) bool {
	if spec.DormFiltersActive() {
		return true
	}
	if !spec.CategoriesActive() {
		return true
	}
	return spec.Categories["dorm"]
}

// ShowPOIs reports whether any POI markers are visible. Dorm-attribute
// filtering and place-category browsing are mutually exclusive modes: any
// active dorm filter suppresses POIs entirely.
func ShowPOIs(spec domain.FilterSpec) bool {
	if spec.DormFiltersActive() {
		return false
	}
	if !spec.CategoriesActive() {
		return true
	}
	return len(spec.POICategoryKeys()) > 0
}

// VisiblePOIs returns the POIs passing the category selection, or nil when
// POI visibility is suppressed.
func VisiblePOIs(pois []domain.Place, spec domain.FilterSpec) []domain.Place {
	if !ShowPOIs(spec) {
		return nil
	}
	if !spec.CategoriesActive() {
		return pois
	}
	allowed := make(map[string]bool)
	for _, k := range spec.POICategoryKeys() {
		allowed[k] = true
	}
	out := make([]domain.Place, 0, len(pois))
	for _, p := range pois {
		if allowed[p.Category] {
			out = append(out, p)
		}
	}
	return out
}

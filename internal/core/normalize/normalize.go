// Package normalize converts loosely-typed place records into the strict
// domain types. Every function is pure and total: malformed input yields
// nil or an empty result, never a panic or an error.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// PriceRange reads price.{min,max,currency}, coercing numbers and numeric
// strings. Returns nil when both bounds are absent. Currency defaults to THB.
func PriceRange(rec *domain.RawPlace) *domain.PriceRange {
	if rec == nil || rec.Price == nil {
		return nil
	}
	min := coerceNumber(rec.Price.Min)
	max := coerceNumber(rec.Price.Max)
	if min == nil && max == nil {
		return nil
	}
	currency := strings.TrimSpace(rec.Price.Currency)
	if currency == "" {
		currency = "THB"
	}
	return &domain.PriceRange{Min: min, Max: max, Currency: currency}
}

// Amenities lower-cases and trims the free-form amenity list, dropping
// anything that is not a non-empty string.
func Amenities(rec *domain.RawPlace) []string {
	if rec == nil || len(rec.Amenities) == 0 {
		return nil
	}
	out := make([]string, 0, len(rec.Amenities))
	for _, v := range rec.Amenities {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Coordinates resolves the record's location to (lat, lng). Input is
// nominally (lng, lat); when the second element cannot be a latitude while
// the first can, the pair is treated as accidentally swapped. Returns nil
// when neither ordering is plausible.
func Coordinates(rec *domain.RawPlace) *domain.GeoPoint {
	if rec == nil || rec.Location == nil || len(rec.Location.Coordinates) < 2 {
		return nil
	}
	lngP := coerceNumber(rec.Location.Coordinates[0])
	latP := coerceNumber(rec.Location.Coordinates[1])
	if lngP == nil || latP == nil {
		return nil
	}
	lng, lat := *lngP, *latP
	if math.Abs(lat) > 90 && math.Abs(lng) <= 90 {
		lng, lat = lat, lng
	}
	if math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return nil
	}
	return &domain.GeoPoint{Lat: lat, Lon: lng}
}

// Place assembles the strict Place from a raw record. Returns nil when the
// record has no resolvable coordinates; everything else degrades field by
// field. Raw records must not travel past this boundary.
func Place(rec *domain.RawPlace, kind domain.Kind, anchor domain.GeoPoint) *domain.Place {
	if rec == nil {
		return nil
	}
	pt := Coordinates(rec)
	if pt == nil {
		return nil
	}
	category := rec.Category
	if kind == domain.KindDorm {
		category = rec.Type
		if category == "" {
			category = "dorm"
		}
	}
	return &domain.Place{
		ID:          rec.Identifier(),
		Name:        strings.TrimSpace(rec.Name),
		Kind:        kind,
		Category:    category,
		Location:    *pt,
		Amenities:   Amenities(rec),
		Price:       PriceRange(rec),
		DistanceM:   Distance(rec, anchor),
		Images:      ImageURLs(rec),
		Description: strings.TrimSpace(rec.Description),
		Address:     strings.TrimSpace(rec.Address),
		Tags:        rec.Tags,
	}
}

// coerceNumber accepts the numeric shapes JSON decoding can produce, plus
// numeric strings. Non-finite values coerce to nil.
func coerceNumber(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return finite(float64(n))
	case int64:
		return finite(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finite(f)
	}
	return nil
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/pkg/geospatial"
)

// Unit conversion factors to meters. Unrecognized units pass through
// unconverted — a lenient default, not silently correct.
const (
	metersPerKilometer = 1000
	metersPerMile      = 1609.34
	metersPerFoot      = 0.3048
	metersPerYard      = 0.9144
)

var valueUnitRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]+)`)

// Distance resolves the record's distance to the campus anchor in meters.
// Explicit metadata wins, tried across every known field alias; when none
// resolves, the great-circle distance from the record's coordinates to the
// anchor is used. Returns nil when nothing resolves.
func Distance(rec *domain.RawPlace, anchor domain.GeoPoint) *float64 {
	if rec == nil {
		return nil
	}
	for _, src := range distanceSources(rec) {
		if m := normalizeEntry(src, ""); m != nil {
			return m
		}
	}
	pt := Coordinates(rec)
	if pt == nil {
		return nil
	}
	m := geospatial.Haversine(pt.Lat, pt.Lon, anchor.Lat, anchor.Lon)
	return finite(m)
}

// distanceSources lists candidate fields in priority order: nested
// distance-to-campus entries first, then the distance field itself, then
// the flat legacy aliases.
func distanceSources(rec *domain.RawPlace) []any {
	sources := make([]any, 0, 8)
	if nested, ok := rec.Distance.(map[string]any); ok {
		for _, key := range []string{"toUniversity", "university", "campus"} {
			if v, present := nested[key]; present {
				sources = append(sources, v)
			}
		}
	}
	sources = append(sources,
		rec.Distance,
		rec.DistanceToCampus,
		rec.DistanceSnake,
		rec.DistanceMeters,
		rec.DistanceMSnake,
		rec.DistanceInMeters,
	)
	return sources
}

// normalizeEntry converts one candidate value to meters: bare numbers,
// unit-suffixed strings, and unit-keyed objects are all accepted.
func normalizeEntry(entry any, defaultUnit string) *float64 {
	if entry == nil {
		return nil
	}
	if value, unit, ok := extractValueAndUnit(entry, defaultUnit); ok {
		return finite(toMeters(value, unit))
	}
	obj, ok := entry.(map[string]any)
	if !ok {
		return nil
	}
	fallbackUnit := defaultUnit
	for _, key := range []string{"unit", "units", "measure", "metric"} {
		if s, isStr := obj[key].(string); isStr {
			fallbackUnit = s
			break
		}
	}
	candidates := []struct {
		value any
		unit  string
	}{
		{firstPresent(obj, "meters", "m"), "m"},
		{firstPresent(obj, "kilometers", "km"), "km"},
		{obj["value"], fallbackUnit},
		{obj["distance"], fallbackUnit},
		{obj["amount"], fallbackUnit},
		{obj["length"], fallbackUnit},
	}
	for _, c := range candidates {
		if c.value == nil {
			continue
		}
		if m := normalizeEntry(c.value, c.unit); m != nil {
			return m
		}
	}
	return nil
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// extractValueAndUnit pulls a numeric value and unit token out of a number
// or string entry. Strings may carry a unit suffix ("1.2 km") or be plain
// numerics; thousand separators are tolerated.
func extractValueAndUnit(entry any, unitHint string) (float64, string, bool) {
	hint := strings.ToLower(strings.TrimSpace(unitHint))
	switch v := entry.(type) {
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return 0, "", false
		}
		if m := valueUnitRe.FindStringSubmatch(s); m != nil {
			num, err := strconv.ParseFloat(m[1], 64)
			if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
				return 0, "", false
			}
			unit := strings.ToLower(m[2])
			if unit == "" {
				unit = hint
			}
			return num, unit, true
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
			return 0, "", false
		}
		return num, hint, true
	default:
		if n := coerceNumber(entry); n != nil {
			return *n, hint, true
		}
	}
	return 0, "", false
}

func toMeters(value float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "m", "meter", "meters", "metre", "metres":
		return value
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return value * metersPerKilometer
	case "mi", "mile", "miles":
		return value * metersPerMile
	case "ft", "foot", "feet":
		return value * metersPerFoot
	case "yd", "yard", "yards":
		return value * metersPerYard
	default:
		return value
	}
}

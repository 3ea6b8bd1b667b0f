// Package suggest produces the search box's suggestion list and resolves a
// submitted query to a place.
package suggest

import (
	"math/rand"
	"strings"

	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// Selector picks suggestions from the currently filtered dorm set. Entries
// without a name never suggest. The rng is injectable so tests can seed it.
type Selector struct {
	RecommendationCap int
	MatchCap          int
	Rand              *rand.Rand
}

// Recommendations returns up to RecommendationCap named places chosen at
// random, for the empty-query dropdown. The input slice is not modified.
func (s *Selector) Recommendations(places []domain.Place) []domain.Place {
	named := make([]domain.Place, 0, len(places))
	for i := range places {
		if strings.TrimSpace(places[i].Name) != "" {
			named = append(named, places[i])
		}
	}
	if len(named) == 0 {
		return nil
	}
	s.Rand.Shuffle(len(named), func(i, j int) {
		named[i], named[j] = named[j], named[i]
	})
	if len(named) > s.RecommendationCap {
		named = named[:s.RecommendationCap]
	}
	return named
}

// Matches returns up to MatchCap places whose name starts with the query,
// case-insensitively, deduplicated by id (falling back to name for places
// without one). Input order is preserved.
func (s *Selector) Matches(query string, places []domain.Place) []domain.Place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	seen := make(map[string]bool, s.MatchCap)
	var out []domain.Place
	for i := range places {
		name := strings.ToLower(strings.TrimSpace(places[i].Name))
		if name == "" || !strings.HasPrefix(name, q) {
			continue
		}
		key := places[i].ID
		if key == "" {
			key = name
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, places[i])
		if len(out) >= s.MatchCap {
			break
		}
	}
	return out
}

// Resolve maps a submitted query to a place: the first current suggestion
// wins, then the first prefix match over the filtered set, then the first
// substring match. Returns nil when nothing matches.
func Resolve(query string, suggestions, places []domain.Place) *domain.Place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if len(suggestions) > 0 {
		p := suggestions[0]
		return &p
	}
	for i := range places {
		if strings.HasPrefix(strings.ToLower(places[i].Name), q) {
			p := places[i]
			return &p
		}
	}
	for i := range places {
		if strings.Contains(strings.ToLower(places[i].Name), q) {
			p := places[i]
			return &p
		}
	}
	return nil
}

package suggest_test

import (
	"math/rand"
	"testing"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/suggest"
)

func place(id, name string) domain.Place {
	return domain.Place{ID: id, Name: name, Kind: domain.KindDorm}
}

func newSelector(seed int64) *suggest.Selector {
	return &suggest.Selector{
		RecommendationCap: 4,
		MatchCap:          8,
		Rand:              rand.New(rand.NewSource(seed)),
	}
}

func TestRecommendations_CapAndMembership(t *testing.T) {
	places := []domain.Place{
		place("1", "Baan A"), place("2", "Baan B"), place("3", "Baan C"),
		place("4", "Baan D"), place("5", "Baan E"), place("6", "Baan F"),
	}
	s := newSelector(42)
	got := s.Recommendations(places)
	if len(got) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(got))
	}
	valid := make(map[string]bool)
	for _, p := range places {
		valid[p.ID] = true
	}
	seen := make(map[string]bool)
	for _, p := range got {
		if !valid[p.ID] {
			t.Errorf("recommendation %q not from the input set", p.ID)
		}
		if seen[p.ID] {
			t.Errorf("duplicate recommendation %q", p.ID)
		}
		seen[p.ID] = true
	}
	// The input must not be reordered.
	if places[0].ID != "1" || places[5].ID != "6" {
		t.Error("input slice was shuffled in place")
	}
}

func TestRecommendations_SmallSetReturnsAll(t *testing.T) {
	places := []domain.Place{place("1", "Baan A"), place("2", "Baan B")}
	got := newSelector(1).Recommendations(places)
	if len(got) != 2 {
		t.Fatalf("expected both places, got %d", len(got))
	}
	if got := newSelector(1).Recommendations(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestRecommendations_SkipsUnnamed(t *testing.T) {
	places := []domain.Place{
		place("1", "Baan A"),
		place("2", ""),
		place("3", "   "),
		place("4", "Baan B"),
	}
	got := newSelector(7).Recommendations(places)
	if len(got) != 2 {
		t.Fatalf("expected only the named places, got %d", len(got))
	}
	for _, p := range got {
		if p.ID == "2" || p.ID == "3" {
			t.Errorf("unnamed place %q suggested", p.ID)
		}
	}
	if got := newSelector(1).Recommendations([]domain.Place{place("2", "")}); got != nil {
		t.Errorf("all-unnamed input must yield nil, got %v", got)
	}
}

func TestMatches_PrefixCaseInsensitive(t *testing.T) {
	places := []domain.Place{
		place("1", "Baan Suanthon"),
		place("2", "baan rimnam"),
		place("3", "The Campus Loft"),
	}
	got := newSelector(1).Matches("BAAN", places)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("expected the two prefix matches in input order, got %v", got)
	}
	if got := newSelector(1).Matches("   ", places); got != nil {
		t.Errorf("blank query must match nothing, got %v", got)
	}
}

func TestMatches_CapAndDedupe(t *testing.T) {
	var places []domain.Place
	for i := 0; i < 12; i++ {
		places = append(places, place("", "Baan Dup")) // dedupes to one by name
	}
	names := []string{"Baan 1", "Baan 2", "Baan 3", "Baan 4", "Baan 5", "Baan 6", "Baan 7", "Baan 8", "Baan 9"}
	for i, n := range names {
		places = append(places, place(string(rune('a'+i)), n))
	}
	got := newSelector(1).Matches("baan", places)
	if len(got) != 8 {
		t.Fatalf("expected cap of 8, got %d", len(got))
	}
	if got[0].Name != "Baan Dup" {
		t.Errorf("first-seen duplicate should survive once, got %q", got[0].Name)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Name == "Baan Dup" {
			t.Error("duplicate name not collapsed")
		}
	}
}

func TestResolve_Priority(t *testing.T) {
	places := []domain.Place{
		place("1", "Campus View"),
		place("2", "Baan Suanthon"),
		place("3", "New Baan Annex"),
	}
	suggestions := []domain.Place{place("2", "Baan Suanthon"), place("3", "New Baan Annex")}

	if p := suggest.Resolve("baan", suggestions, places); p == nil || p.ID != "2" {
		t.Errorf("the first suggestion should win, got %+v", p)
	}
	if p := suggest.Resolve("baan", nil, places); p == nil || p.ID != "2" {
		t.Errorf("first prefix match over the full set, got %+v", p)
	}
	if p := suggest.Resolve("annex", nil, places); p == nil || p.ID != "3" {
		t.Errorf("substring fallback, got %+v", p)
	}
	if p := suggest.Resolve("nonexistent", nil, places); p != nil {
		t.Errorf("expected nil, got %+v", p)
	}
	if p := suggest.Resolve("  ", suggestions, places); p != nil {
		t.Errorf("blank query resolves to nil, got %+v", p)
	}
}

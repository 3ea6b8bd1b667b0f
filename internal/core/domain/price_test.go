package domain_test

import (
	"testing"

	"github.com/muhunXD/dormfinder/internal/core/domain"
)

func fptr(v float64) *float64 { return &v }

func TestProfile_DualOnlyWhenBoundsDiffer(t *testing.T) {
	r := &domain.PriceRange{Min: fptr(3000), Max: fptr(5000), Currency: "THB"}
	p := r.Profile()
	if p.Kind != domain.ProfileDual {
		t.Fatalf("expected dual, got %s", p.Kind)
	}
	if *p.Low != 3000 || *p.High != 5000 {
		t.Errorf("expected low 3000 high 5000, got %v %v", *p.Low, *p.High)
	}
}

func TestProfile_EqualBoundsAreSingle(t *testing.T) {
	r := &domain.PriceRange{Min: fptr(2000), Max: fptr(2000), Currency: "THB"}
	p := r.Profile()
	if p.Kind != domain.ProfileSingle {
		t.Fatalf("expected single for equal bounds, got %s", p.Kind)
	}
	if *p.Low != 2000 || *p.High != 2000 {
		t.Errorf("expected both bounds 2000, got %v %v", *p.Low, *p.High)
	}
}

func TestProfile_SingleBound(t *testing.T) {
	r := &domain.PriceRange{Max: fptr(8000), Currency: "THB"}
	p := r.Profile()
	if p.Kind != domain.ProfileSingle {
		t.Fatalf("expected single, got %s", p.Kind)
	}
	if *p.Low != 8000 || *p.High != 8000 {
		t.Errorf("single bound should fill both sides, got %v %v", *p.Low, *p.High)
	}
}

func TestProfile_ReversedBoundsSwap(t *testing.T) {
	r := &domain.PriceRange{Min: fptr(5000), Max: fptr(3000)}
	p := r.Profile()
	if p.Kind != domain.ProfileDual {
		t.Fatalf("expected dual, got %s", p.Kind)
	}
	if *p.Low != 3000 || *p.High != 5000 {
		t.Errorf("bounds should be ordered, got %v %v", *p.Low, *p.High)
	}
}

func TestProfile_Nil(t *testing.T) {
	var r *domain.PriceRange
	if p := r.Profile(); p.Kind != domain.ProfileNone {
		t.Errorf("expected none for nil range, got %s", p.Kind)
	}
}

func TestEffectiveBounds_SingleFillsBoth(t *testing.T) {
	r := &domain.PriceRange{Min: fptr(4500)}
	lo, hi := r.EffectiveBounds()
	if lo == nil || hi == nil || *lo != 4500 || *hi != 4500 {
		t.Errorf("expected 4500/4500, got %v %v", lo, hi)
	}
}

func TestAverage(t *testing.T) {
	r := &domain.PriceRange{Min: fptr(3000), Max: fptr(5000)}
	if avg := r.Average(); avg == nil || *avg != 4000 {
		t.Errorf("expected 4000, got %v", avg)
	}
	single := &domain.PriceRange{Max: fptr(8000)}
	if avg := single.Average(); avg == nil || *avg != 8000 {
		t.Errorf("expected 8000, got %v", avg)
	}
	empty := &domain.PriceRange{}
	if avg := empty.Average(); avg != nil {
		t.Errorf("expected nil for empty range, got %v", *avg)
	}
}

func TestFormatRangeText(t *testing.T) {
	cases := []struct {
		name   string
		r      *domain.PriceRange
		period bool
		want   string
	}{
		{"equal bounds collapse", &domain.PriceRange{Min: fptr(2000), Max: fptr(2000), Currency: "THB"}, true, "2,000 บาท/เดือน"},
		{"thb range", &domain.PriceRange{Min: fptr(3000), Max: fptr(5000), Currency: "THB"}, true, "3,000-5,000 บาท/เดือน"},
		{"baht symbol", &domain.PriceRange{Min: fptr(4500), Currency: "฿"}, true, "4,500 บาท/เดือน"},
		{"foreign currency", &domain.PriceRange{Min: fptr(150), Max: fptr(200), Currency: "USD"}, true, "150-200 USD/month"},
		{"no period", &domain.PriceRange{Min: fptr(3000), Max: fptr(5000), Currency: "THB"}, false, "3,000-5,000 บาท"},
		{"max only", &domain.PriceRange{Max: fptr(8000), Currency: "THB"}, true, "8,000 บาท/เดือน"},
		{"empty", &domain.PriceRange{Currency: "THB"}, true, "N/A"},
		{"nil", nil, true, "N/A"},
	}
	for _, tc := range cases {
		if got := domain.FormatRangeText(tc.r, tc.period); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestFormatDiffText(t *testing.T) {
	if got := domain.FormatDiffText(fptr(500), "THB"); got != "+500 THB" {
		t.Errorf("expected +500 THB, got %q", got)
	}
	if got := domain.FormatDiffText(fptr(-1200), "THB"); got != "-1,200 THB" {
		t.Errorf("expected -1,200 THB, got %q", got)
	}
	if got := domain.FormatDiffText(fptr(0), "THB"); got != "0 THB" {
		t.Errorf("expected 0 THB, got %q", got)
	}
	if got := domain.FormatDiffText(nil, "THB"); got != "" {
		t.Errorf("expected empty for nil, got %q", got)
	}
}

func TestRouteIdentifier(t *testing.T) {
	withID := &domain.Place{ID: "dorm-1", Location: domain.GeoPoint{Lat: 13.82, Lon: 100.51}}
	if got := withID.RouteIdentifier(); got != "dorm-1" {
		t.Errorf("expected id, got %q", got)
	}
	anonymous := &domain.Place{Location: domain.GeoPoint{Lat: 13.82, Lon: 100.51}}
	if got := anonymous.RouteIdentifier(); got != "100.51,13.82" {
		t.Errorf("expected lng,lat fallback, got %q", got)
	}
	var nilPlace *domain.Place
	if got := nilPlace.RouteIdentifier(); got != "" {
		t.Errorf("expected empty for nil, got %q", got)
	}
}

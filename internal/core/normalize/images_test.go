package normalize_test

import (
	"testing"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/normalize"
)

func TestImageURLs_BlobRewrite(t *testing.T) {
	rec := &domain.RawPlace{
		ImageURL: "https://github.com/muhunXD/dorm-assets/blob/main/photos/a.jpg",
	}
	got := normalize.ImageURLs(rec)
	want := "https://raw.githubusercontent.com/muhunXD/dorm-assets/main/photos/a.jpg"
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected [%s], got %v", want, got)
	}
}

func TestImageURLs_RawAndForeignPassThrough(t *testing.T) {
	rec := &domain.RawPlace{
		Images: []any{
			"https://raw.githubusercontent.com/o/r/main/b.jpg",
			"https://cdn.example.com/c.png",
		},
	}
	got := normalize.ImageURLs(rec)
	if len(got) != 2 {
		t.Fatalf("expected 2 urls, got %v", got)
	}
	if got[0] != "https://raw.githubusercontent.com/o/r/main/b.jpg" {
		t.Errorf("raw url rewritten: %q", got[0])
	}
	if got[1] != "https://cdn.example.com/c.png" {
		t.Errorf("foreign url rewritten: %q", got[1])
	}
}

func TestImageURLs_DedupeFirstSeenAcrossAliases(t *testing.T) {
	rec := &domain.RawPlace{
		ImageURL: "https://cdn.example.com/a.jpg",
		Gallery:  []any{"https://cdn.example.com/b.jpg", "https://cdn.example.com/a.jpg"},
	}
	got := normalize.ImageURLs(rec)
	if len(got) != 2 {
		t.Fatalf("expected 2 urls after dedupe, got %v", got)
	}
	if got[0] != "https://cdn.example.com/a.jpg" || got[1] != "https://cdn.example.com/b.jpg" {
		t.Errorf("first-seen order lost: %v", got)
	}
}

func TestImageURLs_FlattensNestedArrays(t *testing.T) {
	rec := &domain.RawPlace{
		Photos: []any{
			[]any{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
			"https://cdn.example.com/3.jpg",
			42,
			nil,
		},
	}
	got := normalize.ImageURLs(rec)
	if len(got) != 3 {
		t.Fatalf("expected 3 urls, got %v", got)
	}
}

func TestImageURLs_Empty(t *testing.T) {
	if got := normalize.ImageURLs(&domain.RawPlace{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := normalize.ImageURLs(nil); got != nil {
		t.Errorf("expected nil for nil record, got %v", got)
	}
}

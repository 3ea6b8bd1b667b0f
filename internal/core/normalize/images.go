package normalize

import (
	"net/url"
	"strings"

	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// ImageURLs collects image links from every known field alias, flattening
// nested arrays, deduplicating in first-seen order, and rewriting GitHub
// blob permalinks into raw-content URLs.
func ImageURLs(rec *domain.RawPlace) []string {
	if rec == nil {
		return nil
	}
	var collected []string
	seen := make(map[string]struct{})
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, dup := seen[u]; dup {
			return
		}
		seen[u] = struct{}{}
		collected = append(collected, u)
	}
	for _, src := range []any{rec.ImageURL, rec.ImageURLs, rec.Images, rec.Gallery, rec.Photos, rec.Image} {
		collectImageURLs(src, add)
	}
	return collected
}

func collectImageURLs(input any, add func(string)) {
	switch v := input.(type) {
	case nil:
	case string:
		if u := normalizeImageURL(v); u != "" {
			add(u)
		}
	case []any:
		for _, item := range v {
			collectImageURLs(item, add)
		}
	case []string:
		for _, item := range v {
			collectImageURLs(item, add)
		}
	}
}

// normalizeImageURL rewrites github.com/{owner}/{repo}/blob/{branch}/{path}
// into the raw.githubusercontent.com equivalent. GitHub URLs that do not
// match that shape get a ?raw=1 query fallback; everything else passes
// through untouched.
func normalizeImageURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "raw.githubusercontent.com") {
		return s
	}
	if !strings.Contains(s, "github.com/") || !strings.Contains(s, "/blob/") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	parts := splitPath(u.Path)
	blobIdx := -1
	for i, p := range parts {
		if p == "blob" {
			blobIdx = i
			break
		}
	}
	if blobIdx > 1 && blobIdx < len(parts)-1 {
		owner, repo := parts[0], parts[1]
		branch := parts[blobIdx+1]
		rest := strings.Join(parts[blobIdx+2:], "/")
		return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + branch + "/" + rest
	}
	if strings.Contains(s, "?raw=1") {
		return s
	}
	return s + "?raw=1"
}

func splitPath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}

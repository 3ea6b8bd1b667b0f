package domain

// FilterSpec is the compound filter applied to the fetched place sets.
// All fields are independently optional; active filters combine with AND.
type FilterSpec struct {
	PriceMin     *float64        `json:"price_min,omitempty"`
	PriceMax     *float64        `json:"price_max,omitempty"`
	DistanceMaxM *float64        `json:"distance_max_meters,omitempty"`
	Amenities    map[string]bool `json:"amenities,omitempty"`
	Categories   map[string]bool `json:"categories,omitempty"`
}

// PriceActive reports whether either price bound is set.
func (s FilterSpec) PriceActive() bool {
	return s.PriceMin != nil || s.PriceMax != nil
}

// DistanceActive reports whether the distance proximity filter is set.
func (s FilterSpec) DistanceActive() bool {
	return s.DistanceMaxM != nil
}

// AmenitiesActive reports whether any amenity key is requested.
func (s FilterSpec) AmenitiesActive() bool {
	return len(s.Amenities) > 0
}

// DormFiltersActive reports whether any dorm-attribute filter is on.
// These filters suppress POI visibility entirely.
func (s FilterSpec) DormFiltersActive() bool {
	return s.PriceActive() || s.DistanceActive() || s.AmenitiesActive()
}

// CategoriesActive reports whether any place-category toggle is on.
func (s FilterSpec) CategoriesActive() bool {
	return len(s.Categories) > 0
}

// Active reports whether any filter at all is engaged.
func (s FilterSpec) Active() bool {
	return s.DormFiltersActive() || s.CategoriesActive()
}

// AmenityKeys returns the requested amenity keys in unspecified order.
func (s FilterSpec) AmenityKeys() []string {
	keys := make([]string, 0, len(s.Amenities))
	for k, on := range s.Amenities {
		if on {
			keys = append(keys, k)
		}
	}
	return keys
}

// POICategoryKeys returns the selected categories excluding the dorm toggle.
func (s FilterSpec) POICategoryKeys() []string {
	keys := make([]string, 0, len(s.Categories))
	for k, on := range s.Categories {
		if on && k != "dorm" {
			keys = append(keys, k)
		}
	}
	return keys
}

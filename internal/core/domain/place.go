package domain

import (
	"strconv"
	"time"
)

// Kind distinguishes the two families of map places.
type Kind string

const (
	KindDorm Kind = "dorm"
	KindPOI  Kind = "poi"
)

// Dorm types accepted by the listing API.
var DormTypes = []string{"dorm", "apartment", "condo"}

// POI categories aligned with the map filter keys.
var POICategories = []string{
	"seven", "pharmacy", "food", "laundry", "bar", "bike", "barber", "printer", "atm",
}

// ValidPOICategory reports whether c is one of the known POI categories.
func ValidPOICategory(c string) bool {
	for _, known := range POICategories {
		if c == known {
			return true
		}
	}
	return false
}

// Place is the strict internal representation of a dorm or point of
// interest. Raw records are converted into this shape by the normalizer
// and never propagate past it.
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        Kind        `json:"kind"`
	Category    string      `json:"category"` // dorm type or POI category
	Location    GeoPoint    `json:"location"`
	Amenities   []string    `json:"amenities,omitempty"`
	Price       *PriceRange `json:"price,omitempty"`
	DistanceM   *float64    `json:"distance_meters,omitempty"` // to the campus anchor
	Images      []string    `json:"images,omitempty"`
	Description string      `json:"description,omitempty"`
	Address     string      `json:"address,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
}

// RouteIdentifier returns the identifier used to tie a route overlay to a
// place. Falls back to "lng,lat" when the record carries no id.
func (p *Place) RouteIdentifier() string {
	if p == nil {
		return ""
	}
	if p.ID != "" {
		return p.ID
	}
	return formatCoordPair(p.Location.Lon, p.Location.Lat)
}

func formatCoordPair(lon, lat float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
}

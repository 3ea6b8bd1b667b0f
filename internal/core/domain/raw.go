package domain

// RawPlace mirrors the loosely-typed JSON records served by legacy data
// sources. Every known field alias gets an explicit slot; values that may
// arrive as number, string, object, or nested array are typed `any` and
// left for the normalizer to coerce.
type RawPlace struct {
	MongoID     string       `json:"_id,omitempty"`
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Type        string       `json:"type,omitempty"`     // dorm records
	Category    string       `json:"category,omitempty"` // POI records
	Description string       `json:"description,omitempty"`
	Address     string       `json:"address,omitempty"`
	Location    *RawLocation `json:"location,omitempty"`
	Price       *RawPrice    `json:"price,omitempty"`
	Amenities   []any        `json:"amenities,omitempty"`
	Tags        []string     `json:"tags,omitempty"`

	// Distance aliases, in normalizer priority order.
	Distance         any `json:"distance,omitempty"` // number, "1.2 km", or {toUniversity:{value,unit}}
	DistanceToCampus any `json:"distanceToUniversity,omitempty"`
	DistanceSnake    any `json:"distance_to_university,omitempty"`
	DistanceMeters   any `json:"distanceMeters,omitempty"`
	DistanceMSnake   any `json:"distance_meters,omitempty"`
	DistanceInMeters any `json:"distanceInMeters,omitempty"`

	// Image aliases: string, []string, or nested arrays.
	ImageURL  any `json:"imageUrl,omitempty"`
	ImageURLs any `json:"imageUrls,omitempty"`
	Images    any `json:"images,omitempty"`
	Gallery   any `json:"gallery,omitempty"`
	Photos    any `json:"photos,omitempty"`
	Image     any `json:"image,omitempty"`
}

// RawLocation is a GeoJSON-style point. Coordinates are nominally
// (lng, lat) but upstream sources sometimes swap them.
type RawLocation struct {
	Type        string `json:"type,omitempty"`
	Coordinates []any  `json:"coordinates"`
}

// RawPrice carries price bounds that may be numbers or numeric strings.
type RawPrice struct {
	Min      any    `json:"min,omitempty"`
	Max      any    `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Identifier returns the record id under either alias.
func (r *RawPlace) Identifier() string {
	if r == nil {
		return ""
	}
	if r.MongoID != "" {
		return r.MongoID
	}
	return r.ID
}

package domain

// RouteState describes the walking-route overlay for at most one subject
// place at a time.
type RouteState struct {
	Active    bool       `json:"active"`
	SubjectID string     `json:"subject_id,omitempty"`
	Points    []GeoPoint `json:"points,omitempty"`
	DistanceM *float64   `json:"distance_meters,omitempty"`
	DurationS *float64   `json:"duration_seconds,omitempty"`
	Loading   bool       `json:"loading"`
	Error     string     `json:"error,omitempty"`
}

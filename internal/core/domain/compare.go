package domain

// DiffMode indicates which bounds a comparison diff covers.
type DiffMode string

const (
	DiffSingle DiffMode = "single"
	DiffDual   DiffMode = "dual"
)

// ComparisonState is the resolved outcome of comparing a target dorm's
// pricing against a base dorm. Incomplete signals partial data that blocks
// the numeric diff without being an error; a currency mismatch is reported
// as a limitation rather than computed.
type ComparisonState struct {
	BaseID        string       `json:"base_id"`
	TargetID      string       `json:"target_id"`
	BaseRange     *PriceRange  `json:"base_range,omitempty"`
	TargetRange   *PriceRange  `json:"target_range,omitempty"`
	BaseProfile   PriceProfile `json:"base_profile"`
	TargetProfile PriceProfile `json:"target_profile"`
	SameCurrency  bool         `json:"same_currency"`
	Incomplete    bool         `json:"incomplete"`
	DiffMode      DiffMode     `json:"diff_mode,omitempty"`
	DiffLow       *float64     `json:"diff_low,omitempty"`
	DiffHigh      *float64     `json:"diff_high,omitempty"`
}

package domain

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceRange holds monthly rent bounds. At least one bound is set whenever
// the range is considered present.
type PriceRange struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency"`
}

// ProfileKind classifies a price range for comparison purposes.
type ProfileKind string

const (
	ProfileNone   ProfileKind = "none"
	ProfileSingle ProfileKind = "single"
	ProfileDual   ProfileKind = "dual"
)

// PriceProfile is the low/high abstraction used for comparison diffs.
// Dual means the range carries a genuine small-room / big-room split.
type PriceProfile struct {
	Kind ProfileKind `json:"kind"`
	Low  *float64    `json:"low"`
	High *float64    `json:"high"`
}

// Average returns the mean of the present bounds, or the single present
// bound, or nil when both are absent.
func (r *PriceRange) Average() *float64 {
	if r == nil {
		return nil
	}
	switch {
	case r.Min != nil && r.Max != nil:
		avg := (*r.Min + *r.Max) / 2
		return &avg
	case r.Min != nil:
		v := *r.Min
		return &v
	case r.Max != nil:
		v := *r.Max
		return &v
	}
	return nil
}

// EffectiveBounds returns the range with a single present bound treated as
// both low and high.
func (r *PriceRange) EffectiveBounds() (lo, hi *float64) {
	if r == nil {
		return nil, nil
	}
	lo, hi = r.Min, r.Max
	if lo == nil {
		lo = hi
	}
	if hi == nil {
		hi = lo
	}
	return lo, hi
}

// Profile derives the comparison profile: dual when both bounds exist and
// differ, single when one bound resolves (or both are equal), none otherwise.
func (r *PriceRange) Profile() PriceProfile {
	if r == nil {
		return PriceProfile{Kind: ProfileNone}
	}
	vals := make([]float64, 0, 2)
	if r.Min != nil && !math.IsNaN(*r.Min) && !math.IsInf(*r.Min, 0) {
		vals = append(vals, *r.Min)
	}
	if r.Max != nil && !math.IsNaN(*r.Max) && !math.IsInf(*r.Max, 0) {
		vals = append(vals, *r.Max)
	}
	switch len(vals) {
	case 0:
		return PriceProfile{Kind: ProfileNone}
	case 1:
		v := vals[0]
		lo, hi := v, v
		return PriceProfile{Kind: ProfileSingle, Low: &lo, High: &hi}
	}
	lo, hi := vals[0], vals[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return PriceProfile{Kind: ProfileSingle, Low: &lo, High: &hi}
	}
	return PriceProfile{Kind: ProfileDual, Low: &lo, High: &hi}
}

var pricePrinter = message.NewPrinter(language.English)

func formatAmount(v float64) string {
	return pricePrinter.Sprintf("%v", number.Decimal(v))
}

// FormatRangeText renders a price range for display, e.g.
// "2,000 บาท/เดือน" or "3,000-5,000 THB/month". A single present bound is
// treated as both low and high; only a fully absent range yields "N/A".
func FormatRangeText(r *PriceRange, includePeriod bool) string {
	if r == nil {
		return "N/A"
	}
	currency := strings.TrimSpace(r.Currency)
	isTHB := strings.EqualFold(currency, "THB") || currency == "฿"
	display := currency
	if isTHB {
		display = "บาท"
	}
	suffix := ""
	if includePeriod {
		if isTHB {
			suffix = "/เดือน"
		} else {
			suffix = "/month"
		}
	}
	unit := ""
	if display != "" {
		unit = " " + display
	}
	switch {
	case r.Min != nil && r.Max != nil && *r.Min != *r.Max:
		return formatAmount(*r.Min) + "-" + formatAmount(*r.Max) + unit + suffix
	case r.Min != nil:
		return formatAmount(*r.Min) + unit + suffix
	case r.Max != nil:
		return formatAmount(*r.Max) + unit + suffix
	}
	return "N/A"
}

// FormatDiffText renders a signed price difference, e.g. "+500 THB".
// Returns "" for a nil value.
func FormatDiffText(v *float64, currency string) string {
	if v == nil {
		return ""
	}
	prefix := ""
	switch {
	case *v > 0:
		prefix = "+"
	case *v < 0:
		prefix = "-"
	}
	return prefix + formatAmount(math.Abs(*v)) + " " + currency
}

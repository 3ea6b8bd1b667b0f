// Package compare manages the two-step dorm price comparison: pick a base
// dorm, pick a target from the currently visible set, read the diff.
package compare

import (
	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// Phase is the coordinator's position in the selection workflow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelectingTarget
	PhaseResolved
)

// Coordinator holds at most one comparison at a time. Selecting a new base
// discards any prior state immediately. Invalid transitions are silent
// no-ops: they guard against impossible UI states, not user mistakes.
type Coordinator struct {
	phase    Phase
	base     *domain.Place
	targetID string
}

// Phase returns the current workflow phase.
func (c *Coordinator) Phase() Phase { return c.phase }

// Base returns the base dorm, or nil outside an active comparison.
func (c *Coordinator) Base() *domain.Place { return c.base }

// TargetID returns the confirmed target id, or "" before resolution.
func (c *Coordinator) TargetID() string { return c.targetID }

// Start begins a comparison with the given base dorm. No-op when the dorm
// lacks an identifier. Any prior comparison is discarded.
func (c *Coordinator) Start(base *domain.Place) bool {
	if base == nil || base.ID == "" {
		return false
	}
	b := *base
	c.base = &b
	c.targetID = ""
	c.phase = PhaseSelectingTarget
	return true
}

// Confirm resolves the comparison against targetID. The target must be
// present, distinct from the base, and inside the currently visible set —
// comparing against a dorm hidden by active filters is rejected.
func (c *Coordinator) Confirm(targetID string, visible []domain.Place) bool {
	if c.phase != PhaseSelectingTarget || c.base == nil {
		return false
	}
	if targetID == "" || targetID == c.base.ID {
		return false
	}
	found := false
	for i := range visible {
		if visible[i].ID == targetID {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	c.targetID = targetID
	c.phase = PhaseResolved
	return true
}

// Cancel returns to idle, discarding any pending selection.
func (c *Coordinator) Cancel() {
	c.phase = PhaseIdle
	c.base = nil
	c.targetID = ""
}

// Revalidate drops state that the visible set no longer supports: a hidden
// base cancels the whole comparison, a hidden target reopens selection.
func (c *Coordinator) Revalidate(visible []domain.Place) {
	if c.phase == PhaseIdle || c.base == nil {
		return
	}
	if !idVisible(c.base.ID, visible) {
		c.Cancel()
		return
	}
	if c.phase == PhaseResolved && !idVisible(c.targetID, visible) {
		c.targetID = ""
		c.phase = PhaseSelectingTarget
	}
}

// Summary computes the comparison outcome against the visible set, or nil
// when the comparison is not resolved.
func (c *Coordinator) Summary(visible []domain.Place) *domain.ComparisonState {
	if c.phase != PhaseResolved || c.base == nil || c.targetID == "" {
		return nil
	}
	var target *domain.Place
	for i := range visible {
		if visible[i].ID == c.targetID {
			target = &visible[i]
			break
		}
	}
	if target == nil {
		return nil
	}
	return BuildSummary(c.base, target)
}

// BuildSummary computes the price diff between two dorms. Missing price
// data marks the summary incomplete; differing currencies disable the
// numeric diff entirely (conversion is out of scope).
func BuildSummary(base, target *domain.Place) *domain.ComparisonState {
	st := &domain.ComparisonState{
		BaseID:      base.ID,
		TargetID:    target.ID,
		BaseRange:   base.Price,
		TargetRange: target.Price,
	}
	if base.Price == nil || target.Price == nil {
		st.Incomplete = true
		st.BaseProfile = base.Price.Profile()
		st.TargetProfile = target.Price.Profile()
		return st
	}
	st.SameCurrency = base.Price.Currency == target.Price.Currency
	st.BaseProfile = base.Price.Profile()
	st.TargetProfile = target.Price.Profile()
	if !st.SameCurrency {
		return st
	}
	if st.BaseProfile.Kind == domain.ProfileNone || st.TargetProfile.Kind == domain.ProfileNone {
		st.Incomplete = true
		return st
	}
	if st.BaseProfile.Kind == domain.ProfileDual || st.TargetProfile.Kind == domain.ProfileDual {
		st.DiffMode = domain.DiffDual
	} else {
		st.DiffMode = domain.DiffSingle
	}
	st.DiffLow = diff(st.TargetProfile.Low, st.BaseProfile.Low)
	if st.DiffMode == domain.DiffDual {
		st.DiffHigh = diff(st.TargetProfile.High, st.BaseProfile.High)
		if st.DiffLow == nil || st.DiffHigh == nil {
			// Partial dual data: show whichever side resolved.
			st.Incomplete = true
		}
	} else if st.DiffLow == nil {
		st.Incomplete = true
	}
	return st
}

func diff(target, base *float64) *float64 {
	if target == nil || base == nil {
		return nil
	}
	d := *target - *base
	return &d
}

func idVisible(id string, visible []domain.Place) bool {
	for i := range visible {
		if visible[i].ID == id {
			return true
		}
	}
	return false
}

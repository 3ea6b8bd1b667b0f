package compare_test

import (
	"testing"

	"github.com/muhunXD/dormfinder/internal/core/compare"
	"github.com/muhunXD/dormfinder/internal/core/domain"
)

func fptr(f float64) *float64 { return &f }

func priced(id string, min, max float64, currency string) domain.Place {
	return domain.Place{
		ID:    id,
		Name:  id,
		Kind:  domain.KindDorm,
		Price: &domain.PriceRange{Min: fptr(min), Max: fptr(max), Currency: currency},
	}
}

func TestCoordinator_HappyPath(t *testing.T) {
	base := priced("a", 3000, 5000, "THB")
	target := priced("b", 3500, 5200, "THB")
	visible := []domain.Place{base, target}

	var c compare.Coordinator
	if c.Phase() != compare.PhaseIdle {
		t.Fatal("expected idle start")
	}
	if !c.Start(&base) {
		t.Fatal("start rejected")
	}
	if c.Phase() != compare.PhaseSelectingTarget {
		t.Fatalf("expected selecting phase, got %v", c.Phase())
	}
	if !c.Confirm("b", visible) {
		t.Fatal("confirm rejected")
	}
	if c.Phase() != compare.PhaseResolved {
		t.Fatalf("expected resolved phase, got %v", c.Phase())
	}

	st := c.Summary(visible)
	if st == nil {
		t.Fatal("expected a summary")
	}
	if st.Incomplete || !st.SameCurrency {
		t.Fatalf("unexpected flags: %+v", st)
	}
	if st.DiffMode != domain.DiffDual {
		t.Fatalf("expected dual diff, got %v", st.DiffMode)
	}
	if st.DiffLow == nil || *st.DiffLow != 500 {
		t.Errorf("expected DiffLow 500, got %v", st.DiffLow)
	}
	if st.DiffHigh == nil || *st.DiffHigh != 200 {
		t.Errorf("expected DiffHigh 200, got %v", st.DiffHigh)
	}
}

func TestCoordinator_ConfirmRejections(t *testing.T) {
	base := priced("a", 3000, 5000, "THB")
	hidden := priced("h", 2000, 2500, "THB")
	visible := []domain.Place{base, priced("b", 1000, 2000, "THB")}

	var c compare.Coordinator
	if c.Confirm("b", visible) {
		t.Error("confirm before start must fail")
	}
	c.Start(&base)
	if c.Confirm("", visible) {
		t.Error("empty target accepted")
	}
	if c.Confirm("a", visible) {
		t.Error("self comparison accepted")
	}
	if c.Confirm(hidden.ID, visible) {
		t.Error("hidden target accepted")
	}
	if c.Phase() != compare.PhaseSelectingTarget {
		t.Errorf("rejections must not advance the phase, got %v", c.Phase())
	}
}

func TestCoordinator_StartRejectsAnonymous(t *testing.T) {
	var c compare.Coordinator
	if c.Start(nil) {
		t.Error("nil base accepted")
	}
	if c.Start(&domain.Place{Name: "no id"}) {
		t.Error("id-less base accepted")
	}
	if c.Phase() != compare.PhaseIdle {
		t.Errorf("expected idle, got %v", c.Phase())
	}
}

func TestCoordinator_RestartDiscardsPrior(t *testing.T) {
	a := priced("a", 3000, 5000, "THB")
	b := priced("b", 3500, 5200, "THB")
	visible := []domain.Place{a, b}

	var c compare.Coordinator
	c.Start(&a)
	c.Confirm("b", visible)
	c.Start(&b)
	if c.Phase() != compare.PhaseSelectingTarget {
		t.Fatalf("restart must reopen selection, got %v", c.Phase())
	}
	if c.TargetID() != "" {
		t.Errorf("restart must clear the target, got %q", c.TargetID())
	}
	if c.Base() == nil || c.Base().ID != "b" {
		t.Errorf("restart must replace the base, got %+v", c.Base())
	}
}

func TestCoordinator_RevalidateCascades(t *testing.T) {
	a := priced("a", 3000, 5000, "THB")
	b := priced("b", 3500, 5200, "THB")
	visible := []domain.Place{a, b}

	var c compare.Coordinator
	c.Start(&a)
	c.Confirm("b", visible)

	// Hidden target reopens selection.
	c.Revalidate([]domain.Place{a})
	if c.Phase() != compare.PhaseSelectingTarget || c.TargetID() != "" {
		t.Fatalf("hidden target should reopen selection, got phase %v target %q", c.Phase(), c.TargetID())
	}

	// Hidden base cancels the whole comparison.
	c.Revalidate([]domain.Place{b})
	if c.Phase() != compare.PhaseIdle || c.Base() != nil {
		t.Fatalf("hidden base should cancel, got phase %v", c.Phase())
	}
}

func TestCoordinator_SummaryNilWhenUnresolvedOrTargetGone(t *testing.T) {
	a := priced("a", 3000, 5000, "THB")
	b := priced("b", 3500, 5200, "THB")
	visible := []domain.Place{a, b}

	var c compare.Coordinator
	if c.Summary(visible) != nil {
		t.Error("idle summary must be nil")
	}
	c.Start(&a)
	if c.Summary(visible) != nil {
		t.Error("selecting-phase summary must be nil")
	}
	c.Confirm("b", visible)
	if c.Summary([]domain.Place{a}) != nil {
		t.Error("summary against a set missing the target must be nil")
	}
}

func TestBuildSummary_CurrencyMismatchDisablesDiff(t *testing.T) {
	base := priced("a", 3000, 5000, "THB")
	target := priced("b", 150, 200, "USD")
	st := compare.BuildSummary(&base, &target)
	if st.SameCurrency {
		t.Error("expected currency mismatch")
	}
	if st.DiffLow != nil || st.DiffHigh != nil {
		t.Errorf("cross-currency diff must stay nil, got %v/%v", st.DiffLow, st.DiffHigh)
	}
}

func TestBuildSummary_MissingPriceIsIncomplete(t *testing.T) {
	base := priced("a", 3000, 5000, "THB")
	target := domain.Place{ID: "b", Kind: domain.KindDorm}
	st := compare.BuildSummary(&base, &target)
	if !st.Incomplete {
		t.Error("missing target price must mark the summary incomplete")
	}
	if st.DiffLow != nil {
		t.Errorf("no diff without both prices, got %v", st.DiffLow)
	}
}

func TestBuildSummary_SingleVsSingle(t *testing.T) {
	base := priced("a", 2000, 2000, "THB")
	target := priced("b", 2500, 2500, "THB")
	st := compare.BuildSummary(&base, &target)
	if st.DiffMode != domain.DiffSingle {
		t.Fatalf("equal-bound profiles compare as single values, got %v", st.DiffMode)
	}
	if st.DiffLow == nil || *st.DiffLow != 500 {
		t.Errorf("expected diff 500, got %v", st.DiffLow)
	}
	if st.DiffHigh != nil {
		t.Errorf("single mode carries no high diff, got %v", st.DiffHigh)
	}
}

func TestBuildSummary_SingleVsDualIsDual(t *testing.T) {
	base := priced("a", 2000, 2000, "THB")
	target := priced("b", 2500, 3000, "THB")
	st := compare.BuildSummary(&base, &target)
	if st.DiffMode != domain.DiffDual {
		t.Fatalf("expected dual mode when either side is a range, got %v", st.DiffMode)
	}
	if st.DiffLow == nil || *st.DiffLow != 500 {
		t.Errorf("expected DiffLow 500, got %v", st.DiffLow)
	}
	if st.DiffHigh == nil || *st.DiffHigh != 1000 {
		t.Errorf("expected DiffHigh 1000, got %v", st.DiffHigh)
	}
}

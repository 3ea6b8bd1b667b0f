// Package routeplan drives the walking-route overlay: one route at a time,
// from a selected place to the campus back gate, with stale responses from
// superseded requests fenced off by a generation counter.
package routeplan

import (
	"errors"
	"fmt"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// User-facing route errors, matching the service's Thai-language UI.
const (
	msgNoPath      = "ไม่พบเส้นทางเดินที่เหมาะสม"
	msgUnavailable = "ไม่สามารถคำนวณเส้นทางได้ในขณะนี้"
)

// Workflow owns the route overlay state. It is not safe for concurrent use;
// the session controller serializes access.
type Workflow struct {
	state domain.RouteState
	gen   uint64
}

// State returns the current route overlay state.
func (w *Workflow) State() domain.RouteState { return w.state }

// Request asks for a route for the given subject. Requesting the subject
// the overlay already owns, whether shown, loading or errored, clears it
// instead: the overlay is a toggle. Returns the generation to pass back to
// Complete, and whether a fetch should be started.
func (w *Workflow) Request(subjectID string) (gen uint64, start bool) {
	if subjectID == "" {
		return 0, false
	}
	if (w.state.Active || w.state.Loading) && w.state.SubjectID == subjectID {
		w.Reset()
		return 0, false
	}
	w.gen++
	w.state = domain.RouteState{
		SubjectID: subjectID,
		Loading:   true,
	}
	return w.gen, true
}

// Complete applies a fetch result. Results carrying a stale generation are
// dropped: only the newest request may write state, regardless of the order
// responses arrive in.
func (w *Workflow) Complete(gen uint64, points []domain.GeoPoint, distanceM, durationS *float64, err error) bool {
	if gen != w.gen || !w.state.Loading {
		return false
	}
	w.state.Loading = false
	// Failures keep the overlay bound to its subject so the next request
	// for it toggles back to idle instead of refetching.
	if err != nil {
		w.state.Active = true
		w.state.Error = routeErrorMessage(err)
		return true
	}
	if len(points) == 0 {
		w.state.Active = true
		w.state.Error = msgNoPath
		return true
	}
	w.state.Active = true
	w.state.Points = points
	w.state.DistanceM = distanceM
	w.state.DurationS = durationS
	w.state.Error = ""
	return true
}

// Invalidate clears the route when its subject is no longer visible.
func (w *Workflow) Invalidate(visible func(id string) bool) {
	if w.state.SubjectID == "" {
		return
	}
	if !visible(w.state.SubjectID) {
		w.Reset()
	}
}

// Reset clears the overlay and fences out any in-flight fetch.
func (w *Workflow) Reset() {
	w.gen++
	w.state = domain.RouteState{}
}

func routeErrorMessage(err error) string {
	var statusErr *ports.RouteStatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("ไม่สามารถคำนวณเส้นทางได้ (รหัส %d)", statusErr.Code)
	}
	if errors.Is(err, ports.ErrNoRouteFound) {
		return msgNoPath
	}
	return msgUnavailable
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/muhunXD/dormfinder/internal/core/session"
	"github.com/muhunXD/dormfinder/internal/pkg/metrics"
)

// sessionEvent is one client-to-server message on the session socket.
type sessionEvent struct {
	Type     string   `json:"type"`
	Query    string   `json:"query,omitempty"`
	ID       string   `json:"id,omitempty"`
	Key      string   `json:"key,omitempty"`
	PriceMin *float64 `json:"priceMin,omitempty"`
	PriceMax *float64 `json:"priceMax,omitempty"`
	MaxM     *float64 `json:"maxM,omitempty"`
}

// SessionHub tracks live session controllers so broker events can trigger a
// refetch on every connected client.
type SessionHub struct {
	mu       sync.Mutex
	sessions map[*session.Controller]struct{}
}

// NewSessionHub creates an empty hub.
func NewSessionHub() *SessionHub {
	return &SessionHub{sessions: make(map[*session.Controller]struct{})}
}

func (h *SessionHub) add(c *session.Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[c] = struct{}{}
	metrics.ActiveSessions.Set(float64(len(h.sessions)))
}

func (h *SessionHub) remove(c *session.Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, c)
	metrics.ActiveSessions.Set(float64(len(h.sessions)))
}

// RefreshAll asks every live session to refetch its place sets. Called when
// a place-update event arrives from NATS.
func (h *SessionHub) RefreshAll(ctx context.Context) {
	h.mu.Lock()
	controllers := make([]*session.Controller, 0, len(h.sessions))
	for c := range h.sessions {
		controllers = append(controllers, c)
	}
	h.mu.Unlock()

	for _, c := range controllers {
		c.Refresh(ctx)
	}
}

// SessionWSHandler upgrades to WebSocket and runs one session controller
// for the lifetime of the connection. Every applied event pushes a full
// state snapshot back to the client.
func SessionWSHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		log := slog.Default().With("remote", remoteAddr)
		log.Info("session connected")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writes come from event handling, debounce firings and route
		// completions; serialize them.
		var writeMu sync.Mutex
		push := func(snap session.Snapshot) {
			data, err := json.Marshal(snap)
			if err != nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = c.WriteMessage(websocket.TextMessage, data)
		}

		ctrl := session.New(deps.SessionCfg, deps.Source, deps.RouteFinder, log, push)
		deps.Sessions.add(ctrl)
		defer deps.Sessions.remove(ctrl)
		defer ctrl.Close()

		ctrl.Start(ctx)

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var ev sessionEvent
			if err := json.Unmarshal(msg, &ev); err != nil {
				writeMu.Lock()
				_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid JSON"}`))
				writeMu.Unlock()
				continue
			}

			applySessionEvent(ctx, ctrl, ev)
		}

		log.Info("session disconnected")
	}
}

func applySessionEvent(ctx context.Context, ctrl *session.Controller, ev sessionEvent) {
	switch ev.Type {
	case "query":
		ctrl.SetQuery(ctx, ev.Query)
	case "price_filter":
		ctrl.SetPriceFilter(ev.PriceMin, ev.PriceMax)
	case "distance_filter":
		ctrl.SetDistanceFilter(ev.MaxM)
	case "toggle_amenity":
		ctrl.ToggleAmenity(ev.Key)
	case "toggle_category":
		ctrl.ToggleCategory(ev.Key)
	case "reset_filters":
		ctrl.ResetFilters()
	case "select":
		ctrl.Select(ev.ID)
	case "compare_start":
		ctrl.CompareStart(ev.ID)
	case "compare_confirm":
		ctrl.CompareConfirm(ev.ID)
	case "compare_cancel":
		ctrl.CompareCancel()
	case "route":
		ctrl.RequestRoute(ctx, ev.ID)
	case "search_submit":
		ctrl.SearchSubmit(ev.Query)
	}
}

package http

import (
	"github.com/muhunXD/dormfinder/internal/adapters/postgres"
	"github.com/muhunXD/dormfinder/internal/adapters/valkey"
	"github.com/muhunXD/dormfinder/internal/core/ports"
	"github.com/muhunXD/dormfinder/internal/core/session"
	"github.com/muhunXD/dormfinder/internal/core/usecases"
	"github.com/nats-io/nats.go"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Dorms       *usecases.DormService
	POIs        *usecases.POIService
	Source      ports.PlaceSource
	RouteFinder ports.RouteFinder
	SessionCfg  session.Config
	Sessions    *SessionHub
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}

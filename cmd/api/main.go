package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/muhunXD/dormfinder/internal/adapters/http"
	natsadapter "github.com/muhunXD/dormfinder/internal/adapters/nats"
	"github.com/muhunXD/dormfinder/internal/adapters/osrm"
	"github.com/muhunXD/dormfinder/internal/adapters/postgres"
	"github.com/muhunXD/dormfinder/internal/adapters/valkey"
	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
	"github.com/muhunXD/dormfinder/internal/core/session"
	"github.com/muhunXD/dormfinder/internal/core/usecases"
	"github.com/muhunXD/dormfinder/internal/pkg/config"
	"github.com/muhunXD/dormfinder/internal/pkg/logging"
	"github.com/muhunXD/dormfinder/internal/pkg/metrics"
	"github.com/muhunXD/dormfinder/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("dormfinder-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr, cfg.Telemetry.Enabled)
	if err != nil {
		slog.Warn("telemetry init failed", "error", err)
	} else {
		defer telemetry.ShutdownWithTimeout(context.Background(), shutdownTracer)
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
	}

	// Raw NATS connection for health checks
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats conn unavailable", "error", err)
	}

	var events ports.EventPublisher
	if pub != nil {
		events = pub
	}

	// Repos and use cases
	dormRepo := postgres.NewDormRepo(db)
	poiRepo := postgres.NewPOIRepo(db)
	dormSvc := usecases.NewDormService(dormRepo, cacheSvc, events)
	poiSvc := usecases.NewPOIService(poiRepo, cacheSvc, events)
	source := usecases.NewPlaceSource(dormSvc, poiSvc, cfg.Session.FetchLimit)

	// Routing
	router := osrm.New(
		cfg.Routing.BaseURL,
		cfg.Routing.SnapRadius,
		time.Duration(cfg.Routing.TimeoutSeconds)*time.Second,
	)

	sessionCfg := session.Config{
		Anchor:            domain.GeoPoint{Lat: cfg.Campus.AnchorLat, Lon: cfg.Campus.AnchorLon},
		Gate:              domain.GeoPoint{Lat: cfg.Campus.GateLat, Lon: cfg.Campus.GateLon},
		PriceTolerance:    cfg.Session.PriceTolerance,
		DistanceBand:      cfg.Session.DistanceBand,
		MaxDistance:       cfg.Session.MaxDistance,
		RecommendationCap: cfg.Session.RecommendationCap,
		MatchCap:          cfg.Session.MatchCap,
		Debounce:          time.Duration(cfg.Session.DebounceMS) * time.Millisecond,
		RandSeed:          time.Now().UnixNano(),
	}

	hub := http.NewSessionHub()

	deps := &http.Dependencies{
		Dorms:       dormSvc,
		POIs:        poiSvc,
		Source:      source,
		RouteFinder: router,
		SessionCfg:  sessionCfg,
		Sessions:    hub,
		NATS:        natsConn,
		DB:          db,
		Cache:       cache,
	}

	// Live sessions refetch when place data changes
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		refresh := func(ctx context.Context, _ *domain.Place) error {
			hub.RefreshAll(ctx)
			return nil
		}
		if err := sub.SubscribeDormUpdates(ctx, refresh); err != nil {
			slog.Warn("subscribe dorm updates", "error", err)
		}
		if err := sub.SubscribePOIUpdates(ctx, refresh); err != nil {
			slog.Warn("subscribe poi updates", "error", err)
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "DormFinder API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

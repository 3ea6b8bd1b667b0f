// Command seeder loads a raw JSON fixture of loosely-typed place records,
// runs them through the normalizer and bulk-upserts the strict forms.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	natsadapter "github.com/muhunXD/dormfinder/internal/adapters/nats"
	"github.com/muhunXD/dormfinder/internal/adapters/postgres"
	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/normalize"
	"github.com/muhunXD/dormfinder/internal/core/usecases"
	"github.com/muhunXD/dormfinder/internal/pkg/config"
	"github.com/muhunXD/dormfinder/internal/pkg/logging"
)

type fixture struct {
	Dorms []domain.RawPlace `json:"dorms"`
	POIs  []domain.RawPlace `json:"pois"`
}

func main() {
	path := flag.String("file", "data/places.json", "path to the seed fixture")
	flag.Parse()

	cfg, err := config.Load("dormfinder-seeder")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "text")

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		log.Fatalf("parse fixture: %v", err)
	}

	ctx := context.Background()
	anchor := domain.GeoPoint{Lat: cfg.Campus.AnchorLat, Lon: cfg.Campus.AnchorLon}

	dorms := normalizeAll(fx.Dorms, domain.KindDorm, anchor)
	pois := normalizeAll(fx.POIs, domain.KindPOI, anchor)
	slog.Info("fixture normalized",
		"dorms", len(dorms), "dorms_skipped", len(fx.Dorms)-len(dorms),
		"pois", len(pois), "pois_skipped", len(fx.POIs)-len(pois),
	)

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	dormSvc := usecases.NewDormService(postgres.NewDormRepo(db), nil, nil)
	poiSvc := usecases.NewPOIService(postgres.NewPOIRepo(db), nil, nil)

	if err := dormSvc.SaveBatch(ctx, dorms); err != nil {
		log.Fatalf("seed dorms: %v", err)
	}
	if err := poiSvc.SaveBatch(ctx, pois); err != nil {
		log.Fatalf("seed pois: %v", err)
	}

	// One broadcast so live sessions refetch the new data
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, skipping update events", "error", err)
	} else {
		defer pub.Close()
		if len(dorms) > 0 {
			if err := pub.PublishDormUpdated(ctx, &dorms[0]); err != nil {
				slog.Warn("publish dorm update", "error", err)
			}
		}
		if len(pois) > 0 {
			if err := pub.PublishPOIUpdated(ctx, &pois[0]); err != nil {
				slog.Warn("publish poi update", "error", err)
			}
		}
	}

	slog.Info("seed complete")
}

func normalizeAll(recs []domain.RawPlace, kind domain.Kind, anchor domain.GeoPoint) []domain.Place {
	out := make([]domain.Place, 0, len(recs))
	for i := range recs {
		place := normalize.Place(&recs[i], kind, anchor)
		if place == nil {
			slog.Warn("record skipped, no usable coordinates", "identifier", recs[i].Identifier())
			continue
		}
		if place.ID == "" {
			place.ID = place.RouteIdentifier()
		}
		out = append(out, *place)
	}
	return out
}

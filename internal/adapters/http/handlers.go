package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/normalize"
	"github.com/muhunXD/dormfinder/internal/core/ports"
	"github.com/muhunXD/dormfinder/internal/pkg/metrics"
)

// parseBounds reads the north/south/east/west query params. Either all four
// are present or none.
func parseBounds(c *fiber.Ctx) (*domain.Bounds, bool) {
	vals := []string{c.Query("north"), c.Query("south"), c.Query("east"), c.Query("west")}
	present := 0
	for _, v := range vals {
		if v != "" {
			present++
		}
	}
	if present == 0 {
		return nil, true
	}
	if present != 4 {
		return nil, false
	}
	return &domain.Bounds{
		North: c.QueryFloat("north"),
		South: c.QueryFloat("south"),
		East:  c.QueryFloat("east"),
		West:  c.QueryFloat("west"),
	}, true
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ListDormsHandler returns dorms filtered by q, types and map bounds.
func ListDormsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bounds, ok := parseBounds(c)
		if !ok {
			return errBadRequest(c, "bounds require all of north, south, east, west")
		}

		types := splitList(c.Query("types"))
		for _, t := range types {
			valid := false
			for _, known := range domain.DormTypes {
				if t == known {
					valid = true
					break
				}
			}
			if !valid {
				return errBadRequest(c, "unknown dorm type: "+t)
			}
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 200)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 1000 {
			limit = 200
		}

		dorms, err := deps.Dorms.List(c.Context(), ports.PlaceQuery{
			Text:   c.Query("q"),
			Types:  types,
			Bounds: bounds,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return errInternal(c, err.Error())
		}

		metrics.PlacesFetched.WithLabelValues("dorm").Add(float64(len(dorms)))

		pg := Pagination{Offset: offset, Limit: limit, Total: offset + len(dorms)}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: dorms, Pagination: pg})
	}
}

// GetDormHandler returns a single dorm by id.
func GetDormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "dorm id is required")
		}

		dorm, err := deps.Dorms.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "dorm not found")
		}
		return c.JSON(dorm)
	}
}

// CreateDormHandler accepts a loosely-typed dorm record, normalizes it and
// stores the strict form. Records without usable coordinates are rejected.
func CreateDormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec domain.RawPlace
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		dorm := normalize.Place(&rec, domain.KindDorm, deps.SessionCfg.Anchor)
		if dorm == nil {
			return errBadRequest(c, "record has no usable coordinates")
		}
		if dorm.ID == "" {
			dorm.ID = uuid.NewString()
		}

		if err := deps.Dorms.Save(c.Context(), dorm); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(201).JSON(dorm)
	}
}

// UpdateDormHandler replaces a dorm by id with a normalized record.
func UpdateDormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "dorm id is required")
		}
		if _, err := deps.Dorms.GetByID(c.Context(), id); err != nil {
			return errNotFound(c, "dorm not found")
		}

		var rec domain.RawPlace
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		dorm := normalize.Place(&rec, domain.KindDorm, deps.SessionCfg.Anchor)
		if dorm == nil {
			return errBadRequest(c, "record has no usable coordinates")
		}
		dorm.ID = id

		if err := deps.Dorms.Save(c.Context(), dorm); err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(dorm)
	}
}

// DeleteDormHandler removes a dorm.
func DeleteDormHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "dorm id is required")
		}
		if err := deps.Dorms.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "dorm not found")
		}
		return c.SendStatus(204)
	}
}

// ListPOIsHandler returns POIs filtered by q, category and map bounds.
func ListPOIsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bounds, ok := parseBounds(c)
		if !ok {
			return errBadRequest(c, "bounds require all of north, south, east, west")
		}

		categories := splitList(c.Query("category"))
		for _, cat := range categories {
			if !domain.ValidPOICategory(cat) {
				return errBadRequest(c, "unknown poi category: "+cat)
			}
		}

		limit := c.QueryInt("limit", 500)
		if limit <= 0 || limit > 1000 {
			limit = 500
		}

		pois, err := deps.POIs.List(c.Context(), ports.PlaceQuery{
			Text:       c.Query("q"),
			Categories: categories,
			Bounds:     bounds,
			Limit:      limit,
		})
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.PlacesFetched.WithLabelValues("poi").Add(float64(len(pois)))
		return c.JSON(pois)
	}
}

// GetPOIHandler returns a single POI by id.
func GetPOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "poi id is required")
		}

		poi, err := deps.POIs.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "poi not found")
		}
		return c.JSON(poi)
	}
}

// CreatePOIHandler accepts a loosely-typed POI record and stores the strict form.
func CreatePOIHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec domain.RawPlace
		if err := c.BodyParser(&rec); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		poi := normalize.Place(&rec, domain.KindPOI, deps.SessionCfg.Anchor)
		if poi == nil {
			return errBadRequest(c, "record has no usable coordinates")
		}
		if poi.ID == "" {
			poi.ID = uuid.NewString()
		}

		if err := deps.POIs.Save(c.Context(), poi); err != nil {
			if strings.Contains(err.Error(), "unknown poi category") {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}
		return c.Status(201).JSON(poi)
	}
}

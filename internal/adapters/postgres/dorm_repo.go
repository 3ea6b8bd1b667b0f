package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// DormRepo implements ports.DormRepository with pgx.
type DormRepo struct {
	db *DB
}

// NewDormRepo creates a new DormRepo.
func NewDormRepo(db *DB) *DormRepo {
	return &DormRepo{db: db}
}

const dormUpsertSQL = `
	INSERT INTO dorms (id, name, category, location, price_min, price_max, currency,
	                   amenities, images, tags, description, address, distance_m)
	VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography,
	        $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, category = EXCLUDED.category,
	    location = EXCLUDED.location,
	    price_min = EXCLUDED.price_min, price_max = EXCLUDED.price_max,
	    currency = EXCLUDED.currency,
	    amenities = EXCLUDED.amenities, images = EXCLUDED.images,
	    tags = EXCLUDED.tags, description = EXCLUDED.description,
	    address = EXCLUDED.address, distance_m = EXCLUDED.distance_m
`

// Upsert inserts or updates a single dorm.
func (r *DormRepo) Upsert(ctx context.Context, d *domain.Place) error {
	_, err := r.db.Pool.Exec(ctx, dormUpsertSQL, dormUpsertArgs(d)...)
	return err
}

// UpsertBatch inserts many dorms using pgx.Batch.
func (r *DormRepo) UpsertBatch(ctx context.Context, dorms []domain.Place) error {
	batch := &pgx.Batch{}
	for i := range dorms {
		batch.Queue(dormUpsertSQL, dormUpsertArgs(&dorms[i])...)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range dorms {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func dormUpsertArgs(d *domain.Place) []any {
	var min, max *float64
	currency := ""
	if d.Price != nil {
		min, max = d.Price.Min, d.Price.Max
		currency = d.Price.Currency
	}
	return []any{
		d.ID, d.Name, d.Category, d.Location.Lon, d.Location.Lat,
		min, max, currency,
		d.Amenities, d.Images, d.Tags, d.Description, d.Address, d.DistanceM,
	}
}

const dormSelectSQL = `
	SELECT id, name, COALESCE(category, 'dorm'),
	       ST_Y(location::geometry) as lat,
	       ST_X(location::geometry) as lon,
	       price_min, price_max, COALESCE(currency, ''),
	       COALESCE(amenities, '{}'), COALESCE(images, '{}'), COALESCE(tags, '{}'),
	       COALESCE(description, ''), COALESCE(address, ''), distance_m, created_at
	FROM dorms
`

// GetByID returns a dorm by id.
func (r *DormRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	row := r.db.Pool.QueryRow(ctx, dormSelectSQL+` WHERE id = $1`, id)
	d, err := scanDorm(row)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns dorms matching the query, filtered by text, types and bounds.
func (r *DormRepo) List(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Text != "" {
		conds = append(conds, "name ILIKE "+arg("%"+q.Text+"%"))
	}
	if len(q.Types) > 0 {
		conds = append(conds, "category = ANY("+arg(q.Types)+")")
	}
	if q.Bounds != nil {
		// ST_MakeEnvelope(xmin, ymin, xmax, ymax)
		conds = append(conds, fmt.Sprintf(
			"location::geometry && ST_MakeEnvelope(%s, %s, %s, %s, 4326)",
			arg(q.Bounds.West), arg(q.Bounds.South), arg(q.Bounds.East), arg(q.Bounds.North),
		))
	}

	sql := dormSelectSQL
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY name LIMIT " + arg(q.Limit)
	if q.Offset > 0 {
		sql += " OFFSET " + arg(q.Offset)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dorms []domain.Place
	for rows.Next() {
		d, err := scanDorm(rows)
		if err != nil {
			return nil, err
		}
		dorms = append(dorms, *d)
	}
	return dorms, rows.Err()
}

// Delete removes a dorm.
func (r *DormRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM dorms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDorm(row pgx.Row) (*domain.Place, error) {
	var d domain.Place
	var priceMin, priceMax *float64
	var currency string
	err := row.Scan(
		&d.ID, &d.Name, &d.Category,
		&d.Location.Lat, &d.Location.Lon,
		&priceMin, &priceMax, &currency,
		&d.Amenities, &d.Images, &d.Tags,
		&d.Description, &d.Address, &d.DistanceM, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Kind = domain.KindDorm
	if priceMin != nil || priceMax != nil {
		if currency == "" {
			currency = "THB"
		}
		d.Price = &domain.PriceRange{Min: priceMin, Max: priceMax, Currency: currency}
	}
	return &d, nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
)

// POIRepo implements ports.POIRepository with pgx.
type POIRepo struct {
	db *DB
}

// NewPOIRepo creates a new POIRepo.
func NewPOIRepo(db *DB) *POIRepo {
	return &POIRepo{db: db}
}

const poiUpsertSQL = `
	INSERT INTO pois (id, name, category, location, images, tags, description, address, distance_m)
	VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, category = EXCLUDED.category,
	    location = EXCLUDED.location, images = EXCLUDED.images,
	    tags = EXCLUDED.tags, description = EXCLUDED.description,
	    address = EXCLUDED.address, distance_m = EXCLUDED.distance_m
`

// Upsert inserts or updates a single POI.
func (r *POIRepo) Upsert(ctx context.Context, p *domain.Place) error {
	_, err := r.db.Pool.Exec(ctx, poiUpsertSQL, poiUpsertArgs(p)...)
	return err
}

// UpsertBatch inserts many POIs using pgx.Batch.
func (r *POIRepo) UpsertBatch(ctx context.Context, pois []domain.Place) error {
	batch := &pgx.Batch{}
	for i := range pois {
		batch.Queue(poiUpsertSQL, poiUpsertArgs(&pois[i])...)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range pois {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func poiUpsertArgs(p *domain.Place) []any {
	return []any{
		p.ID, p.Name, p.Category, p.Location.Lon, p.Location.Lat,
		p.Images, p.Tags, p.Description, p.Address, p.DistanceM,
	}
}

const poiSelectSQL = `
	SELECT id, name, category,
	       ST_Y(location::geometry) as lat,
	       ST_X(location::geometry) as lon,
	       COALESCE(images, '{}'), COALESCE(tags, '{}'),
	       COALESCE(description, ''), COALESCE(address, ''), distance_m, created_at
	FROM pois
`

// GetByID returns a POI by id.
func (r *POIRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	row := r.db.Pool.QueryRow(ctx, poiSelectSQL+` WHERE id = $1`, id)
	return scanPOI(row)
}

// List returns POIs matching the query, filtered by text, categories and bounds.
func (r *POIRepo) List(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Text != "" {
		conds = append(conds, "name ILIKE "+arg("%"+q.Text+"%"))
	}
	if len(q.Categories) > 0 {
		conds = append(conds, "category = ANY("+arg(q.Categories)+")")
	}
	if q.Bounds != nil {
		conds = append(conds, fmt.Sprintf(
			"location::geometry && ST_MakeEnvelope(%s, %s, %s, %s, 4326)",
			arg(q.Bounds.West), arg(q.Bounds.South), arg(q.Bounds.East), arg(q.Bounds.North),
		))
	}

	sql := poiSelectSQL
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

	var pois []domain.Place
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, err
		}
		pois = append(pois, *p)
	}
	return pois, rows.Err()
}

// ListByCategory returns POIs of one category ordered by distance to campus.
func (r *POIRepo) ListByCategory(ctx context.Context, category string, limit int) ([]domain.Place, error) {
	rows, err := r.db.Pool.Query(ctx,
		poiSelectSQL+` WHERE category = $1 ORDER BY distance_m NULLS LAST LIMIT $2`,
		category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []domain.Place
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, err
		}
		pois = append(pois, *p)
	}
	return pois, rows.Err()
}

// Delete removes a POI.
func (r *POIRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM pois WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanPOI(row pgx.Row) (*domain.Place, error) {
	var p domain.Place
	err := row.Scan(
		&p.ID, &p.Name, &p.Category,
		&p.Location.Lat, &p.Location.Lon,
		&p.Images, &p.Tags,
		&p.Description, &p.Address, &p.DistanceM, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Kind = domain.KindPOI
	return &p, nil
}

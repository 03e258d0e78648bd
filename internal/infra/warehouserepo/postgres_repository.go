package warehouserepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
)

// LoadPostgres reads the full registry from the warehouses table once at
// startup and serves it from memory afterwards. The registry is
// reference data with no write path, so there is no reason to hit the
// database per lookup.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (*MemoryRepository, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, display_name, latitude, longitude
		FROM warehouses
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()

	var entries []shipment.Warehouse
	for rows.Next() {
		var (
			wh       shipment.Warehouse
			lat, lon float64
		)
		if err := rows.Scan(&wh.ID, &wh.Name, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan warehouse row: %w", err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("warehouse %q has out-of-range coordinate (%v, %v)", wh.ID, lat, lon)
		}
		wh.Pos = geo.Point{Lat: lat, Lon: lon}
		entries = append(entries, wh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouses: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("warehouses table is empty")
	}

	return newRepository(entries), nil
}

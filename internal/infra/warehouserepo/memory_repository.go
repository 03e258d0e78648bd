// Package warehouserepo provides the static location registry backing
// the shipment domain.
package warehouserepo

import (
	"context"
	"strings"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
)

// The training dataset's exact location vocabulary: origin values carry
// the Warehouse_ prefix, destination values are plain city names. The
// model only understands these strings, so the registry is fixed.
var registry = []shipment.Warehouse{
	{ID: "Warehouse_NYC", Name: "New York", Pos: geo.Point{Lat: 40.7128, Lon: -74.0060}},
	{ID: "Warehouse_LA", Name: "Los Angeles", Pos: geo.Point{Lat: 34.0522, Lon: -118.2437}},
	{ID: "Warehouse_CHI", Name: "Chicago", Pos: geo.Point{Lat: 41.8781, Lon: -87.6298}},
	{ID: "Warehouse_MIA", Name: "Miami", Pos: geo.Point{Lat: 25.7617, Lon: -80.1918}},
	{ID: "Warehouse_DAL", Name: "Dallas", Pos: geo.Point{Lat: 32.7767, Lon: -96.7970}},
	{ID: "Warehouse_SEA", Name: "Seattle", Pos: geo.Point{Lat: 47.6062, Lon: -122.3321}},
	{ID: "Warehouse_ATL", Name: "Atlanta", Pos: geo.Point{Lat: 33.7490, Lon: -84.3880}},
	{ID: "Warehouse_DEN", Name: "Denver", Pos: geo.Point{Lat: 39.7392, Lon: -104.9903}},
	{ID: "Warehouse_SF", Name: "San Francisco", Pos: geo.Point{Lat: 37.7749, Lon: -122.4194}},
	{ID: "Warehouse_BOS", Name: "Boston", Pos: geo.Point{Lat: 42.3601, Lon: -71.0589}},
	{ID: "Warehouse_HOU", Name: "Houston", Pos: geo.Point{Lat: 29.7604, Lon: -95.3698}},

	{ID: "New York", Name: "New York", Pos: geo.Point{Lat: 40.7128, Lon: -74.0060}},
	{ID: "Los Angeles", Name: "Los Angeles", Pos: geo.Point{Lat: 34.0522, Lon: -118.2437}},
	{ID: "Chicago", Name: "Chicago", Pos: geo.Point{Lat: 41.8781, Lon: -87.6298}},
	{ID: "Miami", Name: "Miami", Pos: geo.Point{Lat: 25.7617, Lon: -80.1918}},
	{ID: "Dallas", Name: "Dallas", Pos: geo.Point{Lat: 32.7767, Lon: -96.7970}},
	{ID: "Seattle", Name: "Seattle", Pos: geo.Point{Lat: 47.6062, Lon: -122.3321}},
	{ID: "Atlanta", Name: "Atlanta", Pos: geo.Point{Lat: 33.7490, Lon: -84.3880}},
	{ID: "Denver", Name: "Denver", Pos: geo.Point{Lat: 39.7392, Lon: -104.9903}},
	{ID: "San Francisco", Name: "San Francisco", Pos: geo.Point{Lat: 37.7749, Lon: -122.4194}},
	{ID: "Boston", Name: "Boston", Pos: geo.Point{Lat: 42.3601, Lon: -71.0589}},
	{ID: "Houston", Name: "Houston", Pos: geo.Point{Lat: 29.7604, Lon: -95.3698}},
	{ID: "Portland", Name: "Portland", Pos: geo.Point{Lat: 45.5152, Lon: -122.6784}},
	{ID: "Detroit", Name: "Detroit", Pos: geo.Point{Lat: 42.3314, Lon: -83.0458}},
	{ID: "Phoenix", Name: "Phoenix", Pos: geo.Point{Lat: 33.4484, Lon: -112.0740}},
	{ID: "Minneapolis", Name: "Minneapolis", Pos: geo.Point{Lat: 44.9778, Lon: -93.2650}},
}

const originPrefix = "Warehouse_"

// MemoryRepository serves the registry from process memory. Lookups are
// O(1) and the data is never mutated after construction.
type MemoryRepository struct {
	byID         map[string]shipment.Warehouse
	origins      []shipment.Warehouse
	destinations []shipment.Warehouse
}

// NewMemoryRepository builds the repository from the embedded registry.
func NewMemoryRepository() *MemoryRepository {
	return newRepository(registry)
}

func newRepository(entries []shipment.Warehouse) *MemoryRepository {
	repo := &MemoryRepository{
		byID: make(map[string]shipment.Warehouse, len(entries)),
	}
	for _, wh := range entries {
		if _, exists := repo.byID[wh.ID]; exists {
			continue
		}
		repo.byID[wh.ID] = wh
		if strings.HasPrefix(wh.ID, originPrefix) {
			repo.origins = append(repo.origins, wh)
		} else {
			repo.destinations = append(repo.destinations, wh)
		}
	}
	return repo
}

// Resolve implements shipment.Registry.
func (r *MemoryRepository) Resolve(_ context.Context, id string) (shipment.Warehouse, bool, error) {
	wh, ok := r.byID[id]
	return wh, ok, nil
}

// Origins lists warehouses usable as shipment origins.
func (r *MemoryRepository) Origins(_ context.Context) ([]shipment.Warehouse, error) {
	return append([]shipment.Warehouse(nil), r.origins...), nil
}

// Destinations lists cities usable as shipment destinations.
func (r *MemoryRepository) Destinations(_ context.Context) ([]shipment.Warehouse, error) {
	return append([]shipment.Warehouse(nil), r.destinations...), nil
}

var _ shipment.Registry = (*MemoryRepository)(nil)

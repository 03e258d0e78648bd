package shipment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
	"github.com/skystream/logistics-cloud/internal/domain/pricing"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
	apperrors "github.com/skystream/logistics-cloud/pkg/errors"
)

var (
	warehouseNYC = shipment.Warehouse{ID: "Warehouse_NYC", Name: "New York", Pos: geo.Point{Lat: 40.7128, Lon: -74.0060}}
	cityLA       = shipment.Warehouse{ID: "Los Angeles", Name: "Los Angeles", Pos: geo.Point{Lat: 34.0522, Lon: -118.2437}}
)

type stubRegistry struct {
	entries map[string]shipment.Warehouse
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{entries: map[string]shipment.Warehouse{
		warehouseNYC.ID: warehouseNYC,
		cityLA.ID:       cityLA,
	}}
}

func (r *stubRegistry) Resolve(_ context.Context, id string) (shipment.Warehouse, bool, error) {
	wh, ok := r.entries[id]
	return wh, ok, nil
}

func (r *stubRegistry) Origins(context.Context) ([]shipment.Warehouse, error) {
	return []shipment.Warehouse{warehouseNYC}, nil
}

func (r *stubRegistry) Destinations(context.Context) ([]shipment.Warehouse, error) {
	return []shipment.Warehouse{cityLA}, nil
}

type stubPredictor struct {
	days    float64
	err     error
	calls   int
	lastRow shipment.ShipmentRequest
}

func (p *stubPredictor) Predict(_ context.Context, row shipment.ShipmentRequest) (float64, error) {
	p.calls++
	p.lastRow = row
	if p.err != nil {
		return 0, p.err
	}
	return p.days, nil
}

type stubStore struct {
	snap     shipment.Snapshot
	set      bool
	publishN int
}

func (s *stubStore) Publish(_ context.Context, snap shipment.Snapshot) error {
	s.snap = snap
	s.set = true
	s.publishN++
	return nil
}

func (s *stubStore) Latest(context.Context) (shipment.Snapshot, bool, error) {
	return s.snap, s.set, nil
}

func newServiceUnderTest(predictor *stubPredictor, store *stubStore) shipment.Service {
	estimator := pricing.NewEstimator(pricing.Config{BaseFee: 15.0, PerMileRate: 0.45, PerKgRate: 1.20})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return shipment.NewService(shipment.Config{PathPoints: 32}, newStubRegistry(), predictor, estimator, store, log)
}

func validRequest() shipment.Request {
	return shipment.Request{
		Origin:      "Warehouse_NYC",
		Destination: "Los Angeles",
		WeightKg:    150,
		Carrier:     "FedEx",
		Month:       "December",
	}
}

func TestPredictSuccess(t *testing.T) {
	predictor := &stubPredictor{days: 4.2}
	store := &stubStore{}
	svc := newServiceUnderTest(predictor, store)

	snap, err := svc.Predict(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotEmpty(t, snap.RequestID)
	require.Equal(t, 4.2, snap.TransitDays)
	require.Equal(t, warehouseNYC, snap.Origin)
	require.Equal(t, cityLA, snap.Destination)
	require.InEpsilon(t, 2445, snap.DistanceMiles, 0.01)
	require.Zero(t, snap.Progress)
	require.Equal(t, warehouseNYC.Pos, snap.Position)
	require.NotEmpty(t, snap.CreatedAt)

	require.Len(t, snap.Path, 32)
	require.Equal(t, warehouseNYC.Pos, snap.Path[0])
	require.Equal(t, cityLA.Pos, snap.Path[31])

	// The row sent to the model and the local cost estimate must share
	// one distance value.
	require.Equal(t, 1, predictor.calls)
	row := predictor.lastRow
	require.Equal(t, snap.DistanceMiles, row.DistanceMiles)
	require.InDelta(t, 15.0+row.DistanceMiles*0.45+150.0*1.20, snap.CostEstimate, 1e-9)
	require.Equal(t, snap.CostEstimate, row.Cost)

	require.Equal(t, shipment.CarrierFedEx, row.Carrier)
	require.Equal(t, "Warehouse_NYC", row.OriginWarehouse)
	require.Equal(t, "Los Angeles", row.Destination)
	require.Equal(t, shipment.Month("December"), row.ShipmentMonth)
	require.Equal(t, 150.0, row.WeightKg)
	require.Equal(t, shipment.StatusOnTime, row.Status)
	// Required by the serving schema, never consumed locally.
	require.NotEmpty(t, row.DeliveryDate)

	require.Equal(t, 1, store.publishN)
	require.Equal(t, snap, store.snap)
}

func TestPredictUnknownWarehouse(t *testing.T) {
	predictor := &stubPredictor{days: 4.2}
	store := &stubStore{}
	svc := newServiceUnderTest(predictor, store)

	req := validRequest()
	req.Destination = "Atlantis"

	_, err := svc.Predict(context.Background(), req)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unknown_warehouse"))
	require.Zero(t, predictor.calls)
	require.Zero(t, store.publishN)
}

func TestPredictInvalidInput(t *testing.T) {
	cases := map[string]func(*shipment.Request){
		"zero weight":     func(r *shipment.Request) { r.WeightKg = 0 },
		"negative weight": func(r *shipment.Request) { r.WeightKg = -3 },
		"bad carrier":     func(r *shipment.Request) { r.Carrier = "Pigeon Post" },
		"bad month":       func(r *shipment.Request) { r.Month = "Brumaire" },
		"empty origin":    func(r *shipment.Request) { r.Origin = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			predictor := &stubPredictor{}
			svc := newServiceUnderTest(predictor, &stubStore{})

			req := validRequest()
			mutate(&req)

			_, err := svc.Predict(context.Background(), req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "invalid_input"))
			require.Zero(t, predictor.calls)
		})
	}
}

func TestPredictRemoteFailureKeepsPreviousSnapshot(t *testing.T) {
	predictor := &stubPredictor{days: 4.2}
	store := &stubStore{}
	svc := newServiceUnderTest(predictor, store)

	first, err := svc.Predict(context.Background(), validRequest())
	require.NoError(t, err)

	predictor.err = apperrors.Wrap("endpoint_error", "serving endpoint rejected the request", nil)
	_, err = svc.Predict(context.Background(), validRequest())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "endpoint_error"))

	// The failed run must not disturb the published result.
	current, ok, err := svc.Current(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first.RequestID, current.RequestID)
}

func TestCurrentComputesAnimationCursor(t *testing.T) {
	predictor := &stubPredictor{days: 4.2}
	store := &stubStore{}
	svc := newServiceUnderTest(predictor, store)

	snap, err := svc.Predict(context.Background(), validRequest())
	require.NoError(t, err)

	halfway, ok, err := svc.Current(context.Background(), 0.5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0.5, halfway.Progress)
	require.Equal(t, geo.PositionAt(snap.Path, 0.5), halfway.Position)

	over, _, err := svc.Current(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1.0, over.Progress)
	require.Equal(t, cityLA.Pos, over.Position)
}

func TestCurrentWithoutPrediction(t *testing.T) {
	svc := newServiceUnderTest(&stubPredictor{}, &stubStore{})

	_, ok, err := svc.Current(context.Background(), 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWarehousesOptions(t *testing.T) {
	svc := newServiceUnderTest(&stubPredictor{}, &stubStore{})

	options, err := svc.Warehouses(context.Background())
	require.NoError(t, err)
	require.Equal(t, []shipment.Warehouse{warehouseNYC}, options.Origins)
	require.Equal(t, []shipment.Warehouse{cityLA}, options.Destinations)
	require.Equal(t, shipment.Carriers(), options.Carriers)
}

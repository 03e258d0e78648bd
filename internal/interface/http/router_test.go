package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
	"github.com/skystream/logistics-cloud/internal/infra/config"
	apperrors "github.com/skystream/logistics-cloud/pkg/errors"
)

type stubShipmentService struct {
	predictFn    func(ctx context.Context, req shipment.Request) (shipment.Snapshot, error)
	currentFn    func(ctx context.Context, progress float64) (shipment.Snapshot, bool, error)
	warehousesFn func(ctx context.Context) (shipment.Options, error)
}

func (s *stubShipmentService) Predict(ctx context.Context, req shipment.Request) (shipment.Snapshot, error) {
	return s.predictFn(ctx, req)
}

func (s *stubShipmentService) Current(ctx context.Context, progress float64) (shipment.Snapshot, bool, error) {
	if s.currentFn == nil {
		return shipment.Snapshot{}, false, nil
	}
	return s.currentFn(ctx, progress)
}

func (s *stubShipmentService) Warehouses(ctx context.Context) (shipment.Options, error) {
	return s.warehousesFn(ctx)
}

func newRouterUnderTest(t *testing.T, svc shipment.Service) *http.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, NewHandler(svc, log))
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, payload []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &body))
	return body
}

func TestRouter_CreatePredictionSuccess(t *testing.T) {
	snap := shipment.Snapshot{
		RequestID:   "req-1",
		TransitDays: 4.2,
		Path:        []geo.Point{{Lat: 40.71, Lon: -74.0}, {Lat: 34.05, Lon: -118.24}},
	}
	svc := &stubShipmentService{
		predictFn: func(_ context.Context, req shipment.Request) (shipment.Snapshot, error) {
			require.Equal(t, "Warehouse_NYC", req.Origin)
			require.Equal(t, "Los Angeles", req.Destination)
			require.Equal(t, 150.0, req.WeightKg)
			return snap, nil
		},
	}

	rec := performRequest(http.MethodPost, "/api/v1/predictions",
		`{"origin":"Warehouse_NYC","destination":"Los Angeles","weightKg":150,"carrier":"FedEx"}`,
		newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, rec.Code)

	var got shipment.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, snap, got)
}

func TestRouter_CreatePredictionInvalidJSON(t *testing.T) {
	svc := &stubShipmentService{}

	rec := performRequest(http.MethodPost, "/api/v1/predictions", `{"weightKg":"heavy"}`,
		newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_CreatePredictionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown warehouse", apperrors.Wrap("unknown_warehouse", "unknown location Atlantis", nil), http.StatusBadRequest, "unknown_warehouse"},
		{"invalid input", apperrors.Wrap("invalid_input", "weight must be positive", nil), http.StatusBadRequest, "invalid_request"},
		{"network", apperrors.Wrap("network_error", "inference request failed", nil), http.StatusBadGateway, "network_error"},
		{"endpoint", apperrors.Wrap("endpoint_error", "serving endpoint rejected the request", nil), http.StatusBadGateway, "endpoint_error"},
		{"malformed", apperrors.Wrap("malformed_response", "serving endpoint response malformed", nil), http.StatusBadGateway, "malformed_response"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubShipmentService{
				predictFn: func(context.Context, shipment.Request) (shipment.Snapshot, error) {
					return shipment.Snapshot{}, tc.err
				},
			}

			rec := performRequest(http.MethodPost, "/api/v1/predictions",
				`{"origin":"a","destination":"b","weightKg":1,"carrier":"FedEx"}`,
				newRouterUnderTest(t, svc))
			require.Equal(t, tc.wantStatus, rec.Code)

			errBody := decodeErrorBody(t, rec.Body.Bytes())
			require.Equal(t, tc.wantCode, errBody["error"]["code"])
		})
	}
}

func TestRouter_CurrentPrediction(t *testing.T) {
	svc := &stubShipmentService{
		currentFn: func(_ context.Context, progress float64) (shipment.Snapshot, bool, error) {
			return shipment.Snapshot{RequestID: "req-1", Progress: progress}, true, nil
		},
	}

	rec := performRequest(http.MethodGet, "/api/v1/predictions/current?progress=0.4", "",
		newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, rec.Code)

	var got shipment.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 0.4, got.Progress)
}

func TestRouter_CurrentPredictionNotFound(t *testing.T) {
	rec := performRequest(http.MethodGet, "/api/v1/predictions/current", "",
		newRouterUnderTest(t, &stubShipmentService{}))
	require.Equal(t, http.StatusNotFound, rec.Code)

	errBody := decodeErrorBody(t, rec.Body.Bytes())
	require.Equal(t, "no_prediction", errBody["error"]["code"])
}

func TestRouter_CurrentPredictionBadProgress(t *testing.T) {
	rec := performRequest(http.MethodGet, "/api/v1/predictions/current?progress=fast", "",
		newRouterUnderTest(t, &stubShipmentService{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ListWarehouses(t *testing.T) {
	svc := &stubShipmentService{
		warehousesFn: func(context.Context) (shipment.Options, error) {
			return shipment.Options{
				Origins:  []shipment.Warehouse{{ID: "Warehouse_NYC", Name: "New York"}},
				Carriers: shipment.Carriers(),
			}, nil
		},
	}

	rec := performRequest(http.MethodGet, "/api/v1/warehouses", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, rec.Code)

	var got shipment.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Origins, 1)
	require.Len(t, got.Carriers, 4)
}

func TestRouter_Health(t *testing.T) {
	rec := performRequest(http.MethodGet, "/health", "", newRouterUnderTest(t, &stubShipmentService{}))
	require.Equal(t, http.StatusOK, rec.Code)
}

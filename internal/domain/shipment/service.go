package shipment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skystream/logistics-cloud/internal/domain/geo"
	"github.com/skystream/logistics-cloud/internal/domain/pricing"
	apperrors "github.com/skystream/logistics-cloud/pkg/errors"
)

// Service runs the prediction pipeline and exposes the published result.
type Service interface {
	Predict(ctx context.Context, req Request) (Snapshot, error)
	Current(ctx context.Context, progress float64) (Snapshot, bool, error)
	Warehouses(ctx context.Context) (Options, error)
}

// Registry resolves warehouse identifiers against the static location
// reference data.
type Registry interface {
	Resolve(ctx context.Context, id string) (Warehouse, bool, error)
	Origins(ctx context.Context) ([]Warehouse, error)
	Destinations(ctx context.Context) ([]Warehouse, error)
}

// Predictor is the opaque remote model behind a capability interface;
// any backend (hosted endpoint, local model, test stub) fits here.
type Predictor interface {
	Predict(ctx context.Context, req ShipmentRequest) (float64, error)
}

// SnapshotStore publishes the current result as a whole object so a
// failed run can never leave a half-updated snapshot behind.
type SnapshotStore interface {
	Publish(ctx context.Context, snap Snapshot) error
	Latest(ctx context.Context) (Snapshot, bool, error)
}

// Config tunes the pipeline.
type Config struct {
	PathPoints int
}

type service struct {
	cfg       Config
	registry  Registry
	predictor Predictor
	estimator *pricing.Estimator
	store     SnapshotStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the shipment prediction domain.
func NewService(cfg Config, registry Registry, predictor Predictor, estimator *pricing.Estimator, store SnapshotStore, logger *slog.Logger) Service {
	if cfg.PathPoints < 2 {
		cfg.PathPoints = 64
	}
	return &service{
		cfg:       cfg,
		registry:  registry,
		predictor: predictor,
		estimator: estimator,
		store:     store,
		logger:    logger.With("component", "shipment.service"),
		now:       time.Now,
	}
}

// Predict executes one full cycle: resolve endpoints, derive distance
// and cost, call the remote model, and assemble the snapshot. The first
// failure aborts the run; the previously published snapshot stays valid.
func (s *service) Predict(ctx context.Context, req Request) (Snapshot, error) {
	requestID := uuid.NewString()
	log := s.logger.With("request_id", requestID)

	carrier, month, err := s.validate(req)
	if err != nil {
		return Snapshot{}, err
	}

	origin, err := s.resolve(ctx, req.Origin)
	if err != nil {
		return Snapshot{}, err
	}
	destination, err := s.resolve(ctx, req.Destination)
	if err != nil {
		return Snapshot{}, err
	}

	// One distance value feeds both the remote payload and the local
	// cost formula.
	distance := geo.DistanceMiles(origin.Pos, destination.Pos)
	cost := s.estimator.Estimate(distance, req.WeightKg)

	submitted := s.now()
	row := ShipmentRequest{
		Carrier:         carrier,
		OriginWarehouse: origin.ID,
		Destination:     destination.ID,
		ShipmentMonth:   month,
		DistanceMiles:   distance,
		WeightKg:        req.WeightKg,
		Cost:            cost,
		Status:          StatusOnTime,
		DeliveryDate:    submitted.Format("2006-01-02"),
	}

	days, err := s.predictor.Predict(ctx, row)
	if err != nil {
		log.Warn("remote prediction failed", "error", err)
		return Snapshot{}, err
	}

	snap := Snapshot{
		RequestID:     requestID,
		Carrier:       carrier,
		Origin:        origin,
		Destination:   destination,
		TransitDays:   days,
		DistanceMiles: distance,
		WeightKg:      req.WeightKg,
		CostEstimate:  cost,
		Path:          geo.Path(origin.Pos, destination.Pos, s.cfg.PathPoints),
		Progress:      0,
		Position:      origin.Pos,
		CreatedAt:     submitted.UTC().Format(time.RFC3339),
	}

	// Snapshot publication is best effort: the caller already has the
	// result in hand.
	if err := s.store.Publish(ctx, snap); err != nil {
		log.Warn("snapshot publish failed", "error", err)
	}

	log.Info("prediction completed",
		"origin", origin.ID, "destination", destination.ID,
		"distance_miles", distance, "transit_days", days)
	return snap, nil
}

// Current returns the latest published snapshot with the animation
// cursor evaluated at the requested progress.
func (s *service) Current(ctx context.Context, progress float64) (Snapshot, bool, error) {
	snap, ok, err := s.store.Latest(ctx)
	if err != nil || !ok {
		return Snapshot{}, false, err
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	snap.Progress = progress
	snap.Position = geo.PositionAt(snap.Path, progress)
	return snap, true, nil
}

// Warehouses lists the dropdown options.
func (s *service) Warehouses(ctx context.Context) (Options, error) {
	origins, err := s.registry.Origins(ctx)
	if err != nil {
		return Options{}, apperrors.Wrap("registry_error", "failed to list origins", err)
	}
	destinations, err := s.registry.Destinations(ctx)
	if err != nil {
		return Options{}, apperrors.Wrap("registry_error", "failed to list destinations", err)
	}
	return Options{
		Origins:      origins,
		Destinations: destinations,
		Carriers:     Carriers(),
	}, nil
}

func (s *service) validate(req Request) (Carrier, Month, error) {
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		return "", "", apperrors.Wrap("invalid_input", "origin and destination are required", nil)
	}
	if req.WeightKg <= 0 {
		return "", "", apperrors.Wrap("invalid_input", "weight must be positive", nil)
	}

	carrier := Carrier(req.Carrier)
	if !carrier.Valid() {
		return "", "", apperrors.Wrap("invalid_input", "unsupported carrier "+req.Carrier, nil)
	}

	month := Month(req.Month)
	if req.Month == "" {
		month = MonthOf(s.now())
	} else if !month.Valid() {
		return "", "", apperrors.Wrap("invalid_input", "unknown month "+req.Month, nil)
	}
	return carrier, month, nil
}

func (s *service) resolve(ctx context.Context, id string) (Warehouse, error) {
	wh, ok, err := s.registry.Resolve(ctx, id)
	if err != nil {
		return Warehouse{}, apperrors.Wrap("registry_error", "registry lookup failed", err)
	}
	if !ok {
		return Warehouse{}, apperrors.Wrap("unknown_warehouse", "unknown location "+id, nil)
	}
	return wh, nil
}

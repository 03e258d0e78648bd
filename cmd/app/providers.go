package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/skystream/logistics-cloud/internal/domain/pricing"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
	"github.com/skystream/logistics-cloud/internal/infra/config"
	"github.com/skystream/logistics-cloud/internal/infra/inference/databricks"
	"github.com/skystream/logistics-cloud/internal/infra/resultstore"
	"github.com/skystream/logistics-cloud/internal/infra/warehouserepo"
)

func provideShipmentConfig(cfg *config.Config) shipment.Config {
	return shipment.Config{
		PathPoints: cfg.Geo.PathPoints,
	}
}

func providePricingEstimator(cfg *config.Config) *pricing.Estimator {
	return pricing.NewEstimator(pricing.Config{
		BaseFee:     cfg.Pricing.BaseFee,
		PerMileRate: cfg.Pricing.PerMileRate,
		PerKgRate:   cfg.Pricing.PerKgRate,
	})
}

func provideInferenceClient(cfg *config.Config) (*databricks.Client, error) {
	return databricks.NewClient(
		cfg.Inference.EndpointURL,
		cfg.Inference.Token,
		cfg.Inference.PredictionField,
		cfg.Inference.Timeout,
	)
}

func provideWarehouseRegistry(cfg *config.Config, logger *slog.Logger) shipment.Registry {
	fallback := warehouserepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Registry.Postgres.DSN)
	if dsn == "" {
		logger.Info("registry postgres dsn not set, using embedded registry")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using embedded registry", "error", err)
		return fallback
	}
	if cfg.Registry.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Registry.Postgres.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using embedded registry", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo, err := warehouserepo.LoadPostgres(ctx, pool)
	// The registry is loaded once at startup; the pool has no further use.
	pool.Close()
	if err != nil {
		logger.Error("failed to load postgres registry, using embedded registry", "error", err)
		return fallback
	}
	logger.Info("postgres warehouse registry loaded")
	return repo
}

func provideSnapshotStore(cfg *config.Config, logger *slog.Logger) shipment.SnapshotStore {
	if cfg.Snapshot.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return resultstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey snapshot store enabled", "addr", cfg.Snapshot.Valkey.Addr)
			return resultstore.NewValkeyStore(client, "skystream")
		}
	}
	return resultstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Snapshot.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Snapshot.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Snapshot.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

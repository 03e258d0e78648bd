//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/skystream/logistics-cloud/internal/bootstrap"
	"github.com/skystream/logistics-cloud/internal/domain/shipment"
	"github.com/skystream/logistics-cloud/internal/infra/config"
	"github.com/skystream/logistics-cloud/internal/infra/inference/databricks"
	httpiface "github.com/skystream/logistics-cloud/internal/interface/http"
	"github.com/skystream/logistics-cloud/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideShipmentConfig,
		providePricingEstimator,
		provideInferenceClient,
		provideWarehouseRegistry,
		provideSnapshotStore,
		shipment.NewService,
		wire.Bind(new(shipment.Predictor), new(*databricks.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

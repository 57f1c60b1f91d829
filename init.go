package main

import (
	"context"

	"github.com/norshop/postnord-rates/internal/config"
	"github.com/norshop/postnord-rates/internal/telemetry"
	"github.com/norshop/postnord-rates/pkg/carrier"
	"github.com/norshop/postnord-rates/pkg/carrier/postnord"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initCarrier(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *postnord.Client {
	return postnord.New(postnord.Config{
		Active:           cfg.PostNordActive,
		CustomerID:       cfg.PostNordCustomerID,
		ClientID:         cfg.PostNordClientID,
		ClientSecret:     cfg.PostNordClientSecret,
		TestMode:         cfg.PostNordTestMode,
		TestClientID:     cfg.PostNordTestClientID,
		TestClientSecret: cfg.PostNordTestClientSecret,
		SenderAddress: carrier.Address{
			Line1:       cfg.StoreStreetLine1,
			Line2:       cfg.StoreStreetLine2,
			PostalCode:  cfg.StorePostcode,
			City:        cfg.StoreCity,
			CountryCode: cfg.StoreCountryID,
		},
		Timeout: cfg.PostNordTimeout,
		UseMock: cfg.PostNordUseMock,
	}, logger, tracer)
}

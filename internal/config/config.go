package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// PostNord merchant credentials
	PostNordActive       bool   `envconfig:"POSTNORD_ACTIVE" default:"true"`
	PostNordCustomerID   string `envconfig:"POSTNORD_CUSTOMER_ID"`
	PostNordClientID     string `envconfig:"POSTNORD_CLIENT_ID"`
	PostNordClientSecret string `envconfig:"POSTNORD_CLIENT_SECRET"`

	// Sandbox mode with its own credential pair; live credentials are not
	// used as fallback when these are missing.
	PostNordTestMode         bool   `envconfig:"POSTNORD_TEST_MODE" default:"false"`
	PostNordTestClientID     string `envconfig:"POSTNORD_TEST_CLIENT_ID"`
	PostNordTestClientSecret string `envconfig:"POSTNORD_TEST_CLIENT_SECRET"`

	PostNordTimeout time.Duration `envconfig:"POSTNORD_TIMEOUT" default:"10s"`
	PostNordUseMock bool          `envconfig:"POSTNORD_USE_MOCK" default:"false"`

	// Store address, used as the sender on every pricing request
	StoreStreetLine1 string `envconfig:"STORE_STREET_LINE1"`
	StoreStreetLine2 string `envconfig:"STORE_STREET_LINE2"`
	StorePostcode    string `envconfig:"STORE_POSTCODE"`
	StoreCity        string `envconfig:"STORE_CITY"`
	StoreCountryID   string `envconfig:"STORE_COUNTRY_ID" default:"NO"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.observability.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"postnord-rates"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("postnord.active", c.PostNordActive),
		attribute.Bool("postnord.test_mode", c.PostNordTestMode),
	}
}

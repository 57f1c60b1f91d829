// Package postnord provides the PostNord shipping-rate integration.
package postnord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/norshop/postnord-rates/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	carrierCode  = "postnord"
	carrierTitle = "PostNord"
)

// pickupPointProductCode marks the MyPack Collect product, which expands
// into one rate option per pickup point. The value is an opaque constant
// from the carrier's product catalog.
const pickupPointProductCode = ProductCode("19")

var (
	errMissingCredentials = errors.New("merchant credentials incomplete")
	errNoToken            = errors.New("no bearer token available")
)

// Config holds PostNord merchant configuration.
type Config struct {
	Active bool

	CustomerID   string
	ClientID     string
	ClientSecret string

	// TestMode switches to the sandbox pricing host and the sandbox
	// credential pair. Live credentials are never used as fallback.
	TestMode         bool
	TestClientID     string
	TestClientSecret string

	// SenderAddress is the merchant's store address, used for the
	// freightPayer and consignor roles of every booking request.
	SenderAddress carrier.Address

	Timeout time.Duration
	UseMock bool // when true, uses the mock API client
}

// credentials is a resolved, validated credential set.
type credentials struct {
	customerID   string
	clientID     string
	clientSecret string
	sandbox      bool
}

// Client is the PostNord carrier client. It implements carrier.Carrier and
// delegates API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new PostNord client. If cfg.UseMock is true, it uses a mock
// API client for testing; otherwise it uses the real HTTP API client against
// the live or sandbox host depending on cfg.TestMode.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		baseURL := LiveBaseURL
		if cfg.TestMode {
			baseURL = SandboxBaseURL
		}
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: baseURL,
			Timeout: cfg.Timeout,
		})
	}

	return newClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new PostNord client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return newClient(cfg, apiClient, logger, tracer)
}

func newClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Code returns the carrier identifier.
func (c *Client) Code() string {
	return carrierCode
}

// resolveCredentials selects between the live and sandbox credential sets.
// It returns false when any required field is empty, which disables quoting
// entirely for the request. Pure read, no side effects.
func (c *Client) resolveCredentials() (credentials, bool) {
	creds := credentials{
		customerID:   c.config.CustomerID,
		clientID:     c.config.ClientID,
		clientSecret: c.config.ClientSecret,
	}

	if c.config.TestMode {
		creds.clientID = c.config.TestClientID
		creds.clientSecret = c.config.TestClientSecret
		creds.sandbox = true
	}

	if creds.customerID == "" || creds.clientID == "" || creds.clientSecret == "" {
		return credentials{}, false
	}
	return creds, true
}

// Quote returns the available PostNord rate options for a checkout request.
// A disabled carrier yields an empty result without error; every real
// failure is reported as a classified *carrier.Failure. No network call is
// made unless the configuration resolves to a complete credential set.
func (c *Client) Quote(ctx context.Context, req *carrier.RateRequest) ([]carrier.RateOption, error) {
	if !c.config.Active {
		return nil, nil
	}

	creds, ok := c.resolveCredentials()
	if !ok {
		return nil, carrier.NewFailure(carrierCode, carrier.FailureConfiguration, errMissingCredentials)
	}

	ctx, span := c.tracer.Start(ctx, "postnord.quote")
	defer span.End()

	c.logger.Ctx(ctx).Info("Requesting PostNord rates",
		zap.String("destination_postal", req.PostalCode),
		zap.String("destination_country", req.CountryCode),
		zap.Float64("weight_kg", req.WeightKg),
		zap.Bool("sandbox", creds.sandbox),
	)

	token, err := c.apiClient.GetToken(ctx, creds.clientID, creds.clientSecret)
	if err != nil {
		return nil, carrier.NewFailure(carrierCode, carrier.FailureAuthentication, err)
	}
	if token == "" {
		return nil, carrier.NewFailure(carrierCode, carrier.FailureAuthentication, errNoToken)
	}

	breq := NewBookingRequest(c.config.SenderAddress, normalizeRecipient(req), req.WeightKg, creds.customerID)

	products, err := c.apiClient.GetProducts(ctx, token, breq)
	if err != nil {
		return nil, carrier.NewFailure(carrierCode, carrier.FailurePricing, err)
	}

	options := optionsFromProducts(products)
	c.logger.Ctx(ctx).Info("Collected PostNord rates",
		zap.Int("products", len(products)),
		zap.Int("options", len(options)),
	)
	return options, nil
}

// CollectRates is the fail-silent form of Quote: any failure degrades to an
// empty option list so a carrier outage never blocks checkout.
func (c *Client) CollectRates(ctx context.Context, req *carrier.RateRequest) []carrier.RateOption {
	options, err := c.Quote(ctx, req)
	if err != nil {
		c.logger.Ctx(ctx).Warn("PostNord quote failed, offering no rates",
			zap.String("failure_class", string(carrier.ClassOf(err))),
			zap.Error(err),
		)
		return nil
	}
	return options
}

// optionsFromProducts maps carrier products to normalized rate options.
// Options keep the response order of products and their nested pickup
// points; duplicate option keys overwrite earlier entries (last write wins)
// without changing the position of the key.
func optionsFromProducts(products []Product) []carrier.RateOption {
	keys := make([]string, 0, len(products))
	byKey := make(map[string]carrier.RateOption, len(products))

	put := func(key string, opt carrier.RateOption) {
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = opt
	}

	for _, product := range products {
		price := product.Price["netAmount"].Value

		if product.Code == pickupPointProductCode {
			for _, point := range product.PickupPoints {
				put(fmt.Sprintf("%s_%s", product.Code, point.CustomerID), carrier.RateOption{
					Carrier:      carrierCode,
					CarrierTitle: carrierTitle,
					MethodCode:   point.CustomerID,
					MethodTitle:  fmt.Sprintf("%s: %s (%s)", product.Name, point.Name, point.CustomerID),
					Price:        price,
					Cost:         price,
				})
			}
			continue
		}

		put(string(product.Code), carrier.RateOption{
			Carrier:      carrierCode,
			CarrierTitle: carrierTitle,
			MethodCode:   string(product.Code),
			MethodTitle:  product.Name,
			Price:        price,
			Cost:         price,
		})
	}

	options := make([]carrier.RateOption, 0, len(keys))
	for _, key := range keys {
		options = append(options, byKey[key])
	}
	return options
}

var _ carrier.Carrier = (*Client)(nil)

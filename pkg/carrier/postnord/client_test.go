package postnord_test

import (
	"context"
	"errors"
	"testing"

	"github.com/norshop/postnord-rates/pkg/carrier"
	"github.com/norshop/postnord-rates/pkg/carrier/postnord"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func testConfig() postnord.Config {
	return postnord.Config{
		Active:       true,
		CustomerID:   "10012345",
		ClientID:     "live-client",
		ClientSecret: "live-secret",
		SenderAddress: carrier.Address{
			Line1:       "Storgata 1",
			PostalCode:  "0155",
			City:        "Oslo",
			CountryCode: "NO",
		},
	}
}

func newTestClient(cfg postnord.Config, mockClient *postnord.MockAPIClient) *postnord.Client {
	logger := otelzap.New(zap.NewNop())
	return postnord.NewWithAPIClient(cfg, mockClient, logger, nil)
}

func testRequest() *carrier.RateRequest {
	return &carrier.RateRequest{
		Street:      "Kirkegata 5",
		PostalCode:  "0153",
		City:        "Oslo",
		CountryCode: "NO",
		WeightKg:    2.5,
	}
}

func TestClient_Quote_Success(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	client := newTestClient(testConfig(), mockAPI)

	options, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	require.Len(t, options, 3) // home delivery + two pickup points

	assert.Equal(t, "postnord", options[0].Carrier)
	assert.Equal(t, "PostNord", options[0].CarrierTitle)
	assert.Equal(t, "25", options[0].MethodCode)
	assert.Equal(t, "PostNord Home Delivery", options[0].MethodTitle)
	assert.True(t, options[0].Price.Equal(decimal.NewFromFloat(149)))
	assert.True(t, options[0].Cost.Equal(options[0].Price))

	assert.Equal(t, "123456", options[1].MethodCode)
	assert.Equal(t, "PostNord MyPack Collect: Coop Extra Torggata (123456)", options[1].MethodTitle)
	assert.Equal(t, "654321", options[2].MethodCode)
	assert.Equal(t, "PostNord MyPack Collect: Rema 1000 Storgata (654321)", options[2].MethodTitle)
	assert.True(t, options[1].Price.Equal(decimal.NewFromFloat(89)))
	assert.True(t, options[2].Price.Equal(decimal.NewFromFloat(89)))
}

func TestClient_Quote_InactiveSkipsNetwork(t *testing.T) {
	cfg := testConfig()
	cfg.Active = false

	mockAPI := postnord.NewMockAPIClient()
	client := newTestClient(cfg, mockAPI)

	options, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Empty(t, options)
	assert.Zero(t, mockAPI.TokenCalls)
	assert.Zero(t, mockAPI.ProductsCalls)
}

func TestClient_Quote_MissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.ClientSecret = ""

	mockAPI := postnord.NewMockAPIClient()
	client := newTestClient(cfg, mockAPI)

	_, err := client.Quote(context.Background(), testRequest())

	require.Error(t, err)
	assert.Equal(t, carrier.FailureConfiguration, carrier.ClassOf(err))
	assert.Zero(t, mockAPI.TokenCalls)
}

func TestClient_Quote_SandboxMissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.TestMode = true
	cfg.TestClientID = "sandbox-client"
	cfg.TestClientSecret = "" // live secret must not be used as fallback

	mockAPI := postnord.NewMockAPIClient()
	client := newTestClient(cfg, mockAPI)

	_, err := client.Quote(context.Background(), testRequest())

	require.Error(t, err)
	assert.Equal(t, carrier.FailureConfiguration, carrier.ClassOf(err))
	assert.Zero(t, mockAPI.TokenCalls)
}

func TestClient_Quote_SandboxUsesSandboxCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.TestMode = true
	cfg.TestClientID = "sandbox-client"
	cfg.TestClientSecret = "sandbox-secret"

	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetToken = func(ctx context.Context, clientID, clientSecret string) (string, error) {
		assert.Equal(t, "sandbox-client", clientID)
		assert.Equal(t, "sandbox-secret", clientSecret)
		return "sandbox-token", nil
	}

	client := newTestClient(cfg, mockAPI)

	_, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, 1, mockAPI.TokenCalls)
}

func TestClient_Quote_TokenError(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetToken = func(ctx context.Context, clientID, clientSecret string) (string, error) {
		return "", &postnord.APIError{Code: "HTTP_401", Message: "invalid_client"}
	}

	client := newTestClient(testConfig(), mockAPI)

	_, err := client.Quote(context.Background(), testRequest())

	require.Error(t, err)
	assert.Equal(t, carrier.FailureAuthentication, carrier.ClassOf(err))
	assert.Zero(t, mockAPI.ProductsCalls) // pricing is never attempted without a token
}

func TestClient_Quote_PricingError(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetProducts = func(ctx context.Context, token string, req *postnord.BookingRequest) ([]postnord.Product, error) {
		return nil, errors.New("connection refused")
	}

	client := newTestClient(testConfig(), mockAPI)

	_, err := client.Quote(context.Background(), testRequest())

	require.Error(t, err)
	assert.Equal(t, carrier.FailurePricing, carrier.ClassOf(err))
}

func TestClient_CollectRates_SwallowsFailures(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(testConfig(), mockAPI)

	options := client.CollectRates(context.Background(), testRequest())

	assert.Empty(t, options)
}

func TestClient_CollectRates_Success(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	client := newTestClient(testConfig(), mockAPI)

	options := client.CollectRates(context.Background(), testRequest())

	assert.Len(t, options, 3)
}

func TestClient_Quote_PickupPointExpansion(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetProducts = func(ctx context.Context, token string, req *postnord.BookingRequest) ([]postnord.Product, error) {
		return []postnord.Product{
			{
				Code: "19",
				Name: "PostNord MyPack Collect",
				Price: map[string]postnord.PriceAmount{
					"netAmount": {Currency: "NOK", Value: decimal.NewFromFloat(75.5)},
				},
				PickupPoints: []postnord.PickupPoint{
					{CustomerID: "111", Name: "Point One"},
					{CustomerID: "222", Name: "Point Two"},
				},
			},
		}, nil
	}

	client := newTestClient(testConfig(), mockAPI)

	options, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "111", options[0].MethodCode)
	assert.Equal(t, "PostNord MyPack Collect: Point One (111)", options[0].MethodTitle)
	assert.Equal(t, "222", options[1].MethodCode)
	assert.Equal(t, "PostNord MyPack Collect: Point Two (222)", options[1].MethodTitle)
	assert.True(t, options[0].Price.Equal(decimal.NewFromFloat(75.5)))
}

func TestClient_Quote_NetAmountSelected(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetProducts = func(ctx context.Context, token string, req *postnord.BookingRequest) ([]postnord.Product, error) {
		return []postnord.Product{
			{
				Code: "30",
				Name: "PostNord Parcel",
				Price: map[string]postnord.PriceAmount{
					"grossAmount": {Currency: "NOK", Value: decimal.NewFromFloat(200)},
					"netAmount":   {Currency: "NOK", Value: decimal.NewFromFloat(160)},
					"vatAmount":   {Currency: "NOK", Value: decimal.NewFromFloat(40)},
				},
			},
		}, nil
	}

	client := newTestClient(testConfig(), mockAPI)

	options, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "30", options[0].MethodCode)
	assert.Equal(t, "PostNord Parcel", options[0].MethodTitle)
	assert.True(t, options[0].Price.Equal(decimal.NewFromFloat(160)))
}

func TestClient_Quote_DuplicateCodesLastWriteWins(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetProducts = func(ctx context.Context, token string, req *postnord.BookingRequest) ([]postnord.Product, error) {
		return []postnord.Product{
			{
				Code:  "25",
				Name:  "First",
				Price: map[string]postnord.PriceAmount{"netAmount": {Value: decimal.NewFromFloat(10)}},
			},
			{
				Code:  "31",
				Name:  "Middle",
				Price: map[string]postnord.PriceAmount{"netAmount": {Value: decimal.NewFromFloat(20)}},
			},
			{
				Code:  "25",
				Name:  "Second",
				Price: map[string]postnord.PriceAmount{"netAmount": {Value: decimal.NewFromFloat(30)}},
			},
		}, nil
	}

	client := newTestClient(testConfig(), mockAPI)

	options, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	require.Len(t, options, 2)
	// duplicate keeps its original position but carries the later values
	assert.Equal(t, "Second", options[0].MethodTitle)
	assert.True(t, options[0].Price.Equal(decimal.NewFromFloat(30)))
	assert.Equal(t, "Middle", options[1].MethodTitle)
}

func TestClient_Quote_MissingNetAmountYieldsZeroPrice(t *testing.T) {
	mockAPI := postnord.NewMockAPIClient()
	mockAPI.OnGetProducts = func(ctx context.Context, token string, req *postnord.BookingRequest) ([]postnord.Product, error) {
		return []postnord.Product{
			{
				Code:  "42",
				Name:  "Unpriced",
				Price: map[string]postnord.PriceAmount{"grossAmount": {Value: decimal.NewFromFloat(99)}},
			},
		}, nil
	}

	client := newTestClient(testConfig(), mockAPI)

	options, err := client.Quote(context.Background(), testRequest())

	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.True(t, options[0].Price.IsZero())
}

func TestClient_Code(t *testing.T) {
	client := newTestClient(testConfig(), postnord.NewMockAPIClient())

	assert.Equal(t, "postnord", client.Code())
}

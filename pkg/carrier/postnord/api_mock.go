package postnord

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockAPIClient is a mock implementation of APIClient for testing.
// Call counters let tests assert which network calls would have happened.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	TokenCalls    int
	ProductsCalls int

	OnGetToken    func(ctx context.Context, clientID, clientSecret string) (string, error)
	OnGetProducts func(ctx context.Context, token string, req *BookingRequest) ([]Product, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetToken returns a mock bearer token.
func (m *MockAPIClient) GetToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	m.TokenCalls++

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return "", &APIError{Code: "MOCK_ERROR", Message: "Simulated token error"}
	}

	if m.OnGetToken != nil {
		return m.OnGetToken(ctx, clientID, clientSecret)
	}

	return "mock-token-" + uuid.New().String()[:8], nil
}

// GetProducts returns mock priced products: one home-delivery product and
// one pickup-point product with two pickup points.
func (m *MockAPIClient) GetProducts(ctx context.Context, token string, req *BookingRequest) ([]Product, error) {
	m.ProductsCalls++

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "Simulated products error"}
	}

	if m.OnGetProducts != nil {
		return m.OnGetProducts(ctx, token, req)
	}

	return []Product{
		{
			Code: "25",
			Name: "PostNord Home Delivery",
			Price: map[string]PriceAmount{
				"netAmount":   {Currency: "NOK", Value: decimal.NewFromFloat(149), Vat: decimal.NewFromFloat(37.25)},
				"grossAmount": {Currency: "NOK", Value: decimal.NewFromFloat(186.25)},
			},
		},
		{
			Code: "19",
			Name: "PostNord MyPack Collect",
			Price: map[string]PriceAmount{
				"netAmount":   {Currency: "NOK", Value: decimal.NewFromFloat(89), Vat: decimal.NewFromFloat(22.25)},
				"grossAmount": {Currency: "NOK", Value: decimal.NewFromFloat(111.25)},
			},
			PickupPoints: []PickupPoint{
				{CustomerID: "123456", Name: "Coop Extra Torggata"},
				{CustomerID: "654321", Name: "Rema 1000 Storgata"},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)

package postnord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fixed PostNord endpoints. The token realm is shared between the live and
// sandbox pricing environments.
const (
	TokenURL       = "https://auth.postnord.no/auth/realms/3Scale-prod/protocol/openid-connect/token"
	LiveBaseURL    = "https://api2.postnord.no"
	SandboxBaseURL = "https://atapi2.postnord.no"

	productsPath = "/rest/transport-booking/v2/booking/products"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	tokenURL   string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL  string // pricing host, defaults to LiveBaseURL
	TokenURL string // defaults to TokenURL
	Timeout  time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
// The per-request timeout bounds both outbound calls so a carrier outage
// cannot stall checkout.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = LiveBaseURL
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = TokenURL
	}

	return &HTTPAPIClient{
		baseURL:  baseURL,
		tokenURL: tokenURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetToken performs the OAuth2 client-credentials grant against the token
// endpoint. One form-encoded POST, no retry.
func (c *HTTPAPIClient) GetToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", &APIError{Code: "EMPTY_TOKEN", Message: "token response carried no access_token"}
	}

	return token.AccessToken, nil
}

// GetProducts posts the booking request to the product-pricing endpoint.
func (c *HTTPAPIClient) GetProducts(ctx context.Context, token string, breq *BookingRequest) ([]Product, error) {
	body, err := json.Marshal(breq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+productsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create products request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode products response: %w", err)
	}

	return products, nil
}

// parseError extracts error information from an HTTP response.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		return &apiErr
	}

	return &APIError{
		Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Message: string(body),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)

// Package carrier defines the normalized rate-quoting model shared by
// carrier integrations and the checkout-facing server.
package carrier

import (
	"context"
)

// Carrier quotes shipping rate options for a checkout rate request.
type Carrier interface {
	// Code returns the carrier identifier (e.g., "postnord").
	Code() string

	// Quote returns the available rate options. Failures are reported as
	// *Failure errors so callers can classify them for logs and metrics.
	Quote(ctx context.Context, req *RateRequest) ([]RateOption, error)

	// CollectRates is the degrade-gracefully form of Quote: every failure
	// collapses to an empty option list and no error escapes. A carrier
	// outage must never block checkout, only remove the carrier's options.
	CollectRates(ctx context.Context, req *RateRequest) []RateOption
}

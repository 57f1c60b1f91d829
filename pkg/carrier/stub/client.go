// Package stub provides a deterministic in-process carrier for testing.
package stub

import (
	"context"

	"github.com/norshop/postnord-rates/pkg/carrier"
	"github.com/shopspring/decimal"
)

// Client is a stub carrier with canned rate options.
type Client struct {
	code string

	// Options overrides the canned options when set.
	Options []carrier.RateOption
	// Err makes Quote fail; CollectRates then degrades to no options.
	Err error
}

// New creates a new stub carrier.
func New(code string) *Client {
	return &Client{code: code}
}

// Code returns the carrier identifier.
func (c *Client) Code() string {
	return c.code
}

// Quote returns the stubbed rate options.
func (c *Client) Quote(ctx context.Context, req *carrier.RateRequest) ([]carrier.RateOption, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if c.Options != nil {
		return c.Options, nil
	}

	standard := decimal.NewFromFloat(99)
	express := decimal.NewFromFloat(179)

	return []carrier.RateOption{
		{
			Carrier:      c.code,
			CarrierTitle: "Stub Carrier",
			MethodCode:   "standard",
			MethodTitle:  "Stub Standard",
			Price:        standard,
			Cost:         standard,
		},
		{
			Carrier:      c.code,
			CarrierTitle: "Stub Carrier",
			MethodCode:   "express",
			MethodTitle:  "Stub Express",
			Price:        express,
			Cost:         express,
		},
	}, nil
}

// CollectRates returns the stubbed options, swallowing any stubbed error.
func (c *Client) CollectRates(ctx context.Context, req *carrier.RateRequest) []carrier.RateOption {
	options, err := c.Quote(ctx, req)
	if err != nil {
		return nil
	}
	return options
}

var _ carrier.Carrier = (*Client)(nil)

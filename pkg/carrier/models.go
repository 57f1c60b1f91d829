package carrier

import (
	"github.com/shopspring/decimal"
)

// Address represents a postal address on either end of a shipment.
type Address struct {
	Line1       string
	Line2       string
	PostalCode  string
	City        string
	CountryCode string // ISO 3166-1 alpha-2, e.g., "NO"
}

// RateRequest is the checkout-side input for a quote call.
// Street holds the raw destination street as entered at checkout,
// possibly spanning multiple lines.
type RateRequest struct {
	Street      string
	PostalCode  string
	City        string
	CountryCode string
	WeightKg    float64
}

// RateOption is a single selectable shipping method with its price,
// as shown to the shopper. Price and Cost are always equal; no markup
// is applied at this layer.
type RateOption struct {
	Carrier      string
	CarrierTitle string
	MethodCode   string
	MethodTitle  string
	Price        decimal.Decimal
	Cost         decimal.Decimal
}

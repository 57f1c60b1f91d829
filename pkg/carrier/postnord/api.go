package postnord

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// APIClient defines the interface for PostNord API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetToken exchanges client credentials for a bearer token via the
	// OAuth2 client-credentials grant. Single attempt, no retry.
	GetToken(ctx context.Context, clientID, clientSecret string) (string, error)

	// GetProducts posts a booking request to the transport-booking
	// product-pricing endpoint and returns the priced products.
	GetProducts(ctx context.Context, token string, req *BookingRequest) ([]Product, error)
}

// ============================================================================
// Request types (match the transport-booking v2 booking/products schema)
// ============================================================================
//
// The carrier validates this schema strictly: every field name, the nesting,
// and the explicit nulls must be reproduced exactly. Pointer fields without
// omitempty marshal as null when unset.

// BookingRequest is the shipment-pricing payload.
// POST /rest/transport-booking/v2/booking/products
type BookingRequest struct {
	Name               *string         `json:"name"`
	ShipmentID         *string         `json:"shipmentId"`
	OriginalShipmentID *string         `json:"originalShipmentId"`
	IsReturnShipment   bool            `json:"isReturnShipment"`
	ReturnCode         *string         `json:"returnCode"`
	COD                CODDetails      `json:"cod"`
	Packages           []PackageLine   `json:"packages"`
	Parties            ShipmentParties `json:"parties"`
	Product            ProductSelector `json:"product"`
}

// CODDetails is the cash-on-delivery block. Quoting never uses COD, but the
// schema requires the block with zeroed NOK amounts.
type CODDetails struct {
	BankAccountNo          *string   `json:"bankAccountNo"`
	CustomerOrderReference *string   `json:"customerOrderReference"`
	Paid                   CODAmount `json:"paid"`
	Rest                   CODAmount `json:"rest"`
	Total                  CODAmount `json:"total"`
}

// CODAmount is a currency amount inside the COD block.
type CODAmount struct {
	Currency string `json:"currency"`
	Value    int    `json:"value"`
	Vat      int    `json:"vat"`
}

// PackageLine describes one package of the shipment. Only the gross weight
// carries real data; the carrier accepts zeroed dimensions for quoting.
type PackageLine struct {
	HeightInCmt      float64  `json:"heightInCmt"`
	LengthInCmt      float64  `json:"lengthInCmt"`
	GrossWeightInKgm float64  `json:"grossWeightInKgm"`
	WidthInCmt       float64  `json:"widthInCmt"`
	VolumeInDmq      float64  `json:"volumeInDmq"`
	LoadingMetres    float64  `json:"loadingMetres"`
	ArticleNumbers   []string `json:"articleNumbers"`
	ID               *string  `json:"id"`
}

// ShipmentParties holds the six party roles of the booking schema.
// Only freightPayer, consignor, and consignee carry real data for quoting;
// the rest are null/placeholder blocks the schema requires.
type ShipmentParties struct {
	FreightPayer    Party `json:"freightPayer"`
	Consignee       Party `json:"consignee"`
	Consignor       Party `json:"consignor"`
	ReturnParty     Party `json:"returnParty"`
	OriginalShipper Party `json:"originalShipper"`
	PickupPoint     Party `json:"pickupPoint"`
}

// Party is one shipment party role.
type Party struct {
	CustomerID      *string          `json:"customerId"`
	Reference       *string          `json:"reference"`
	Contact         *PartyContact    `json:"contact"`
	Type            *string          `json:"type"`
	Name            *string          `json:"name"`
	PhysicalAddress *PhysicalAddress `json:"physicalAddress"`
	Information     *string          `json:"information"`
}

// PartyContact is the contact block of a party.
type PartyContact struct {
	ID                 *string `json:"id"`
	EmailAddress       *string `json:"eMailAddress"`
	ContactName        *string `json:"contactName"`
	CountryCallingCode *string `json:"countryCallingCode"`
	MobileNumber       *string `json:"mobileNumber"`
	PhoneNo            *string `json:"phoneNo"`
}

// PhysicalAddress is the street address block of a party.
type PhysicalAddress struct {
	Street      string `json:"street"`
	Street2     string `json:"street2"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// ProductSelector is the (empty) product filter block of the request.
type ProductSelector struct {
	Name           *string  `json:"name"`
	Code           *string  `json:"code"`
	Variants       []string `json:"variants"`
	Options        []string `json:"options"`
	CostComponents []string `json:"costComponents"`
}

// ============================================================================
// Response types
// ============================================================================

// ProductCode is a carrier product code. The API emits codes both as JSON
// strings and as bare numbers, so decoding accepts either form.
type ProductCode string

// UnmarshalJSON accepts both string and numeric codes.
func (c *ProductCode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = ProductCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = ProductCode(n.String())
	return nil
}

// Product is one priced carrier product from the booking/products response.
type Product struct {
	Code         ProductCode            `json:"code"`
	Name         string                 `json:"name"`
	Price        map[string]PriceAmount `json:"price"`
	PickupPoints []PickupPoint          `json:"pickupPoints"`
}

// PriceAmount is one entry of a product's price map. Only the "netAmount"
// entry feeds the quote; other entries are ignored.
type PriceAmount struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
	Vat      decimal.Decimal `json:"vat"`
}

// PickupPoint is a delivery location attached to a pickup-point product.
type PickupPoint struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

// tokenResponse is the OAuth2 token endpoint response body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// APIError represents an error from the PostNord API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

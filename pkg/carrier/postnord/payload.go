package postnord

import (
	"strings"

	"github.com/norshop/postnord-rates/pkg/carrier"
)

// Placeholder values the booking schema requires where checkout data is
// missing or not collected at all. These are carrier-schema filler, not
// business logic; the pricing result does not depend on them.
const (
	defaultStreetLine1 = "Gate 1"
	defaultStreetLine2 = "Gate 2"
	defaultCity        = "Stedsnavn"

	freightPayerName = "Example Business"
	consignorName    = "Example Name"
	consigneeName    = "CoreTrek AS"

	norwayCallingCode = "0047"
	codCurrency       = "NOK"

	partyTypeBusiness = "BUSINESS"
	partyTypeConsumer = "CONSUMER"
)

// minChargeableWeightKgm replaces missing or non-positive package weights;
// the pricing endpoint rejects zero-weight packages.
const minChargeableWeightKgm = 1.0

// normalizeRecipient derives a recipient address from the raw checkout
// request. The street may span multiple lines; missing lines and city fall
// back to the schema placeholders.
func normalizeRecipient(req *carrier.RateRequest) carrier.Address {
	line1, line2 := splitStreetLines(req.Street)
	if line1 == "" {
		line1 = defaultStreetLine1
	}
	if line2 == "" {
		line2 = defaultStreetLine2
	}

	city := req.City
	if city == "" {
		city = defaultCity
	}

	return carrier.Address{
		Line1:       line1,
		Line2:       line2,
		PostalCode:  req.PostalCode,
		City:        city,
		CountryCode: req.CountryCode,
	}
}

// splitStreetLines splits a multi-line street string into its first two lines.
func splitStreetLines(street string) (string, string) {
	lines := strings.Split(street, "\n")
	line1 := strings.TrimRight(lines[0], "\r")
	line2 := ""
	if len(lines) > 1 {
		line2 = strings.TrimRight(lines[1], "\r")
	}
	return line1, line2
}

// coerceWeight clamps the package weight to the minimum the carrier accepts.
func coerceWeight(kg float64) float64 {
	if kg <= 0 {
		return minChargeableWeightKgm
	}
	return kg
}

// NewBookingRequest assembles the shipment-pricing payload for one shipment
// with a single package. The merchant acts as both freight payer and
// consignor; the recipient is the consignee. The returnParty,
// originalShipper, and pickupPoint roles are emitted as null/placeholder
// blocks the schema requires but quoting never uses.
//
// The builder is deterministic: the same inputs always produce the same
// payload values.
func NewBookingRequest(sender, recipient carrier.Address, weightKg float64, customerID string) *BookingRequest {
	return &BookingRequest{
		IsReturnShipment: false,
		COD:              emptyCOD(),
		Packages: []PackageLine{
			{
				GrossWeightInKgm: coerceWeight(weightKg),
				ArticleNumbers:   []string{},
			},
		},
		Parties: ShipmentParties{
			FreightPayer:    merchantParty(customerID, freightPayerName, sender),
			Consignee:       consigneeParty(recipient),
			Consignor:       merchantParty(customerID, consignorName, sender),
			ReturnParty:     Party{},
			OriginalShipper: placeholderParty(),
			PickupPoint:     placeholderParty(),
		},
		Product: ProductSelector{
			Variants:       []string{},
			Options:        []string{},
			CostComponents: []string{},
		},
	}
}

func emptyCOD() CODDetails {
	zero := CODAmount{Currency: codCurrency}
	return CODDetails{
		Paid:  zero,
		Rest:  zero,
		Total: zero,
	}
}

// merchantParty builds a BUSINESS party carrying the merchant's identity.
func merchantParty(customerID, name string, addr carrier.Address) Party {
	return Party{
		CustomerID:      strPtr(customerID),
		Contact:         norwegianContact(),
		Type:            strPtr(partyTypeBusiness),
		Name:            strPtr(name),
		PhysicalAddress: physicalAddress(addr),
	}
}

// consigneeParty builds the CONSUMER party for the shopper's address.
func consigneeParty(addr carrier.Address) Party {
	return Party{
		Contact:         norwegianContact(),
		Type:            strPtr(partyTypeConsumer),
		Name:            strPtr(consigneeName),
		PhysicalAddress: physicalAddress(addr),
	}
}

// placeholderParty builds the unused BUSINESS party blocks with an empty
// contact, matching the schema the carrier validates.
func placeholderParty() Party {
	return Party{
		Contact: &PartyContact{},
		Type:    strPtr(partyTypeBusiness),
	}
}

func norwegianContact() *PartyContact {
	return &PartyContact{
		CountryCallingCode: strPtr(norwayCallingCode),
	}
}

func physicalAddress(addr carrier.Address) *PhysicalAddress {
	return &PhysicalAddress{
		Street:      addr.Line1,
		Street2:     addr.Line2,
		PostalCode:  addr.PostalCode,
		City:        addr.City,
		CountryCode: addr.CountryCode,
	}
}

func strPtr(s string) *string {
	return &s
}

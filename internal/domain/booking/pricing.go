package booking

import (
	"errors"
	"fmt"
)

// Party size limits for tour bookings.
const (
	MinTourParty = 1
	MaxTourParty = 20
)

// Flat airport transfer rates in USD. The rate is per vehicle, not per
// passenger; this is intentional policy, not a missing multiplication.
const (
	TransferRatePickup  = 75.00
	TransferRateDropoff = 75.00
	TransferRateBoth    = 140.00
)

// ErrInvalidQuantity is returned when a party size is outside the bookable range.
var ErrInvalidQuantity = errors.New("invalid number of people")

// ErrUnknownServiceType is returned for a transfer service type outside
// pickup/dropoff/both.
var ErrUnknownServiceType = errors.New("unknown transfer service type")

// PricingStrategy computes booking totals. Amounts are decimal currency
// units; rounding to two decimals happens at presentation, not here.
type PricingStrategy interface {
	// TourPrice returns the total for a tour booking: unit price times party size.
	TourPrice(unitPrice float64, people int) (float64, error)

	// TransferPrice returns the flat rate for an airport transfer.
	TransferPrice(serviceType ServiceType) (float64, error)
}

// StandardPricingStrategy implements the Mystic Tours pricing policy.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// TourPrice computes unitPrice * people for a party of 1 to 20.
func (s *StandardPricingStrategy) TourPrice(unitPrice float64, people int) (float64, error) {
	if people < MinTourParty || people > MaxTourParty {
		return 0, fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidQuantity, people, MinTourParty, MaxTourParty)
	}
	return unitPrice * float64(people), nil
}

// TransferPrice looks up the flat transfer rate for the service type.
func (s *StandardPricingStrategy) TransferPrice(serviceType ServiceType) (float64, error) {
	switch serviceType {
	case ServicePickup:
		return TransferRatePickup, nil
	case ServiceDropoff:
		return TransferRateDropoff, nil
	case ServiceBoth:
		return TransferRateBoth, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownServiceType, serviceType)
	}
}

package services

import (
	"errors"
	"fmt"
	"slices"

	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/pkg/errs"
)

var ErrPricingTiersAreEmpty = errs.NewValueIsRequiredError("pricing tiers")

// PricingTier charges Price for any distance strictly below MaxDistanceMeters.
type PricingTier struct {
	MaxDistanceMeters float64
	Price             float64
}

// DefaultPricingTiers is the Moscow warehouse tariff.
func DefaultPricingTiers() []PricingTier {
	return []PricingTier{
		{MaxDistanceMeters: 10000, Price: 100},
		{MaxDistanceMeters: 20000, Price: 200},
		{MaxDistanceMeters: 30000, Price: 300},
	}
}

// DeliveryPriceCalculator prices deliveries from a fixed origin.
//
// Business rules:
//   - distance is the haversine distance from origin, in meters
//   - the first tier whose MaxDistanceMeters exceeds the distance sets the price
//   - a distance beyond the last tier cannot be delivered; that is a result,
//     not an error
//
// A calculator is immutable after construction and safe for concurrent use.
//
// Example:
//
//	origin := kernel.MustParseGeoPoint("55.77868792", "37.58800507")
//	calc, _ := services.NewDeliveryPriceCalculator(origin, services.DefaultPricingTiers())
//	quote, _ := calc.Quote(target)
//	if !quote.Deliverable {
//	    // too far
//	}
type DeliveryPriceCalculator struct {
	origin kernel.GeoPoint
	tiers  []PricingTier
}

// DeliveryQuote is the outcome of pricing one destination.
type DeliveryQuote struct {
	DistanceMeters float64
	Price          float64
	Deliverable    bool
}

// NewDeliveryPriceCalculator validates tiers: at least one, strictly
// ascending distances, non-negative prices. The slice is copied.
func NewDeliveryPriceCalculator(origin kernel.GeoPoint, tiers []PricingTier) (*DeliveryPriceCalculator, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if len(tiers) == 0 {
		return nil, ErrPricingTiersAreEmpty
	}

	var problems []error
	for i, tier := range tiers {
		if tier.MaxDistanceMeters <= 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("pricing tier",
				fmt.Errorf("tier %d: max distance %v is not greater than 0", i, tier.MaxDistanceMeters)))
		}
		if tier.Price < 0 {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("pricing tier",
				fmt.Errorf("tier %d: price %v is negative", i, tier.Price)))
		}
		if i > 0 && tier.MaxDistanceMeters <= tiers[i-1].MaxDistanceMeters {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("pricing tier",
				fmt.Errorf("tier %d: max distance %v is not greater than %v",
					i, tier.MaxDistanceMeters, tiers[i-1].MaxDistanceMeters)))
		}
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &DeliveryPriceCalculator{origin: origin, tiers: slices.Clone(tiers)}, nil
}

func (c *DeliveryPriceCalculator) Origin() kernel.GeoPoint {
	return c.origin
}

func (c *DeliveryPriceCalculator) Tiers() []PricingTier {
	return slices.Clone(c.tiers)
}

// DistanceMeters returns the great-circle distance from the origin to target.
func (c *DeliveryPriceCalculator) DistanceMeters(target kernel.GeoPoint) (float64, error) {
	return c.origin.DistanceTo(target)
}

// Quote computes distance and price for target.
func (c *DeliveryPriceCalculator) Quote(target kernel.GeoPoint) (DeliveryQuote, error) {
	distance, err := c.DistanceMeters(target)
	if err != nil {
		return DeliveryQuote{}, err
	}

	price, ok := PriceForDistance(distance, c.tiers)
	return DeliveryQuote{DistanceMeters: distance, Price: price, Deliverable: ok}, nil
}

// PriceForDistance returns the price of the first tier whose threshold is
// strictly greater than distance. ok is false when no tier covers it.
func PriceForDistance(distance float64, tiers []PricingTier) (price float64, ok bool) {
	for _, tier := range tiers {
		if distance < tier.MaxDistanceMeters {
			return tier.Price, true
		}
	}
	return 0, false
}

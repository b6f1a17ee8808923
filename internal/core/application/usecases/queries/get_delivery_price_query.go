package queries

import (
	"errors"

	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/pkg/guard"
)

var ErrGetDeliveryPriceQueryIsNotConstructed = errors.New(
	"GetDeliveryPriceQuery must be created via NewGetDeliveryPriceQuery constructor",
)

// GetDeliveryPriceQuery quotes delivery to a destination without storing
// anything.
type GetDeliveryPriceQuery struct {
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewGetDeliveryPriceQuery parses decimal degree strings.
func NewGetDeliveryPriceQuery(latitude, longitude string) (GetDeliveryPriceQuery, error) {
	location, err := kernel.ParseGeoPoint(latitude, longitude)
	if err != nil {
		return GetDeliveryPriceQuery{}, err
	}

	return GetDeliveryPriceQuery{
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliveryPriceQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryPriceQueryIsNotConstructed)
}

func (q GetDeliveryPriceQuery) Location() kernel.GeoPoint {
	return q.location
}

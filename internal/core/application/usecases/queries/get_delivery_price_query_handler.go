package queries

import (
	"context"

	"deliveryorders/internal/core/domain/services"
)

// GetDeliveryPriceQueryHandler quotes a destination. An undeliverable
// destination is a normal result with Deliverable set to false.
type GetDeliveryPriceQueryHandler struct {
	calculator *services.DeliveryPriceCalculator
}

func NewGetDeliveryPriceQueryHandler(calculator *services.DeliveryPriceCalculator) GetDeliveryPriceQueryHandler {
	return GetDeliveryPriceQueryHandler{calculator: calculator}
}

func (h GetDeliveryPriceQueryHandler) Handle(_ context.Context, query GetDeliveryPriceQuery) (services.DeliveryQuote, error) {
	if err := query.Validate(); err != nil {
		return services.DeliveryQuote{}, err
	}

	return h.calculator.Quote(query.Location())
}

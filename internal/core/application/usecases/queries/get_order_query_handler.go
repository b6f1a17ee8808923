package queries

import (
	"context"

	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
)

// GetOrderQueryHandler projects a single stored order.
type GetOrderQueryHandler struct {
	orders ports.OrderReader
}

func NewGetOrderQueryHandler(orders ports.OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

// Handle returns an error wrapping errs.ErrObjectNotFound when the order
// does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (listing.Projection, error) {
	if err := query.Validate(); err != nil {
		return listing.Projection{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return listing.Projection{}, err
	}

	return order.Schema().Project(o, query.Fields()), nil
}

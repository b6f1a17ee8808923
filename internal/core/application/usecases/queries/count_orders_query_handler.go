package queries

import (
	"context"

	"deliveryorders/internal/core/ports"
)

type CountOrdersQueryHandler struct {
	orders ports.OrderReader
}

func NewCountOrdersQueryHandler(orders ports.OrderReader) CountOrdersQueryHandler {
	return CountOrdersQueryHandler{orders: orders}
}

func (h CountOrdersQueryHandler) Handle(ctx context.Context, query CountOrdersQuery) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	return h.orders.Count(ctx, query.Criteria())
}

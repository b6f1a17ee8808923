package queries

import (
	"context"

	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
)

// GetOrdersPageQueryResponse is one page of projected orders.
type GetOrdersPageQueryResponse struct {
	Window listing.Window
	Orders []listing.Projection
}

// GetOrdersPageQueryHandler counts, resolves the window, then lists.
//
// The sort specification is parsed against the order schema with newest
// first as the fallback. Count and list are separate reads, so a concurrent
// insert can make HasNextPage stale by one row; that is accepted.
type GetOrdersPageQueryHandler struct {
	orders ports.OrderReader
}

func NewGetOrdersPageQueryHandler(orders ports.OrderReader) GetOrdersPageQueryHandler {
	return GetOrdersPageQueryHandler{orders: orders}
}

func (h GetOrdersPageQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersPageQuery,
) (GetOrdersPageQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersPageQueryResponse{}, err
	}

	schema := order.Schema()
	sort := schema.ParseSort(query.OrderBy(), order.DefaultSortCriteria())

	total, err := h.orders.Count(ctx, ports.OrderCriteria{})
	if err != nil {
		return GetOrdersPageQueryResponse{}, err
	}
	window := listing.ResolveWindow(query.Page(), query.PageSize(), total)

	orders, err := h.orders.List(ctx, window.Offset(), window.PageSize, sort)
	if err != nil {
		return GetOrdersPageQueryResponse{}, err
	}

	projections := make([]listing.Projection, 0, len(orders))
	for _, o := range orders {
		projections = append(projections, schema.Project(o, query.Fields()))
	}

	return GetOrdersPageQueryResponse{Window: window, Orders: projections}, nil
}

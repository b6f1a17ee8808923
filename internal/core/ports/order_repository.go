// Package ports defines the contracts between the application core and its
// adapters: persistence, transactions and outgoing events.
package ports

import (
	"context"

	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
)

// OrderCriteria narrows Count. The zero value matches every order.
type OrderCriteria struct {
	// Status filters by status; order.Unknown means any status.
	Status order.Status
}

// OrderReader is the read side of OrderRepository.
type OrderReader interface {
	// Get retrieves an order by id. Returns an error wrapping
	// errs.ErrObjectNotFound when there is no such order.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// Count returns the number of orders matching criteria.
	Count(ctx context.Context, criteria OrderCriteria) (int, error)

	// List returns at most limit orders after skipping offset, ordered by
	// sort. Rows that tie on every sort field are ordered by id ascending so
	// pages never overlap.
	List(ctx context.Context, offset, limit int, sort listing.SortCriteria) ([]*order.Order, error)
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	OrderReader

	// Add persists a new order and assigns its id.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error
}

package ports

import (
	"context"
	"time"

	"deliveryorders/internal/core/domain/model/order"
)

// OrderChangedEvent is emitted after an order was created or changed status.
type OrderChangedEvent struct {
	OrderID    int64
	Status     order.Status
	Price      float64
	OccurredAt time.Time
}

// NewOrderChangedEvent snapshots o at now.
func NewOrderChangedEvent(o *order.Order, now time.Time) OrderChangedEvent {
	return OrderChangedEvent{
		OrderID:    o.ID(),
		Status:     o.Status(),
		Price:      o.Price(),
		OccurredAt: now.UTC(),
	}
}

// OrderEventPublisher delivers order events to subscribers. Publishing
// happens after commit, so a failure never undoes the stored change.
type OrderEventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChangedEvent) error
}

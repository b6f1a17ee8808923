package commands

import (
	"context"
	"log/slog"
	"time"

	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
)

// eventDispatcher publishes OrderChanged for every tracked order. Failures
// are logged and swallowed: the change is already committed.
type eventDispatcher struct {
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func newEventDispatcher(publisher ports.OrderEventPublisher, logger *slog.Logger) eventDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return eventDispatcher{publisher: publisher, logger: logger, now: time.Now}
}

func (d eventDispatcher) dispatch(ctx context.Context, orders []*order.Order) {
	if d.publisher == nil {
		return
	}

	for _, o := range orders {
		event := ports.NewOrderChangedEvent(o, d.now())
		if err := d.publisher.PublishOrderChanged(ctx, event); err != nil {
			d.logger.WarnContext(ctx, "Failed to publish order changed event",
				"order_id", event.OrderID,
				"status", event.Status.String(),
				"error", err)
		}
	}
}

package commands

import (
	"context"
	"errors"
	"log/slog"

	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/domain/services"
	"deliveryorders/internal/core/ports"
)

// ErrDeliveryIsNotPossible is returned when the destination lies beyond the
// last pricing tier. Nothing is stored in that case.
var ErrDeliveryIsNotPossible = errors.New("delivery is not possible to this location")

// CreateOrderCommandHandler prices and stores a new order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, calculator, publisher, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// created holds the always-included fields of the new order
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	calculator *services.DeliveryPriceCalculator
	events     eventDispatcher
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// publisher may be nil, in which case no events are sent.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	calculator *services.DeliveryPriceCalculator,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		events:     newEventDispatcher(publisher, logger),
		logger:     logger,
	}
}

// Handle quotes the destination, stores the order in Processing status and
// returns its always-included fields. Optional fields are never part of the
// creation response.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (listing.Projection, error) {
	if err := cmd.Validate(); err != nil {
		return listing.Projection{}, err
	}

	quote, err := h.calculator.Quote(cmd.Location())
	if err != nil {
		return listing.Projection{}, err
	}
	if !quote.Deliverable {
		h.logger.DebugContext(ctx, "Order destination is out of delivery range",
			"location", cmd.Location().String(),
			"distance_meters", quote.DistanceMeters)
		return listing.Projection{}, ErrDeliveryIsNotPossible
	}

	o, err := order.NewOrder(cmd.Composition(), cmd.Address(), cmd.Additional(), cmd.Location(), quote.Price)
	if err != nil {
		return listing.Projection{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return listing.Projection{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return listing.Projection{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return listing.Projection{}, err
	}

	h.logger.InfoContext(ctx, "Order created",
		"order_id", o.ID(),
		"price", o.Price(),
		"distance_meters", quote.DistanceMeters)
	h.events.dispatch(ctx, uow.TrackedOrders())

	return order.Schema().Project(o, ""), nil
}

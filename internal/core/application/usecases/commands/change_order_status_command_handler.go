package commands

import (
	"context"
	"log/slog"

	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
)

// ChangeOrderStatusCommandHandler applies a status change to a stored order.
//
// Errors callers are expected to tell apart:
//   - errs.ErrObjectNotFound: no order with that id
//   - order.ErrStatusAlreadyApplied: nothing changed, nothing was written
//   - order.ErrStatusTransitionIsNotAllowed: the lifecycle forbids it
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	events     eventDispatcher
	logger     *slog.Logger
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		events:     newEventDispatcher(publisher, logger),
		logger:     logger,
	}
}

// Handle returns the always-included fields of the updated order.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (listing.Projection, error) {
	if err := cmd.Validate(); err != nil {
		return listing.Projection{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return listing.Projection{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return listing.Projection{}, err
	}

	previous := o.Status()
	if err = o.ChangeStatus(cmd.Status()); err != nil {
		return listing.Projection{}, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return listing.Projection{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return listing.Projection{}, err
	}

	h.logger.InfoContext(ctx, "Order status changed",
		"order_id", o.ID(),
		"from", previous.String(),
		"to", o.Status().String())
	h.events.dispatch(ctx, uow.TrackedOrders())

	return order.Schema().Project(o, ""), nil
}

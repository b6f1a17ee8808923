package commands_test

import (
	"encoding/json"
	"errors"
	"testing"

	"deliveryorders/internal/core/application/usecases/commands"
	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/domain/services"
	"deliveryorders/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCalculator(t *testing.T) *services.DeliveryPriceCalculator {
	t.Helper()
	calc, err := services.NewDeliveryPriceCalculator(
		kernel.MustParseGeoPoint("55.77868792", "37.58800507"),
		services.DefaultPricingTiers(),
	)
	require.NoError(t, err)
	return calc
}

func nearbyCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	note := "leave at the door"
	cmd, err := commands.NewCreateOrderCommand("pizza", validAddress, &note, "55.762922", "37.739982")
	require.NoError(t, err)
	return cmd
}

func assignID(id int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_ = args.Get(1).(*order.Order).AssignID(id)
	}
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := nearbyCommand(t)

	var stored *order.Order
	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*order.Order)
				_ = stored.AssignID(17)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
	)
	uow.On("TrackedOrders").Return([]*order.Order(nil)).Maybe()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), nil, nil)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	data, err := json.Marshal(created)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":17,"composition":"pizza","address":"`+validAddress+`","price":100,"status":"processing"}`,
		string(data))
	assert.Equal(t, order.Processing, stored.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_PublishesTrackedOrders(t *testing.T) {
	ctx := t.Context()
	cmd := nearbyCommand(t)

	tracked, err := order.RestoreOrder(5, "pizza", validAddress, nil, cmd.Location(), 100, order.Processing)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Add", mock.Anything, mock.Anything).Run(assignID(5)).Return(nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("TrackedOrders").Return([]*order.Order{tracked}).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockOrderEventPublisher)
	publisher.On("PublishOrderChanged", ctx, mock.MatchedBy(func(e ports.OrderChangedEvent) bool {
		return e.OrderID == 5 && e.Status == order.Processing && e.Price == 100 && !e.OccurredAt.IsZero()
	})).Return(errors.New("nats is down")).Once()

	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), publisher, nil)
	_, err = h.Handle(ctx, cmd)

	require.NoError(t, err, "publishing failures must not fail a committed command")
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_Undeliverable(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand("pizza", validAddress, nil, "-33.868820", "151.209290")
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), nil, nil)
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDeliveryIsNotPossible)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), nil, nil)

	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := nearbyCommand(t)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), nil, nil)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := nearbyCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), nil, nil)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd := nearbyCommand(t)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.Anything).Run(assignID(3)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, newCalculator(t), nil, nil)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	uow.AssertExpectations(t)
	uow.AssertNotCalled(t, "TrackedOrders")
}

package queries_test

import (
	"context"
	"testing"

	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/core/domain/model/listing"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) Count(ctx context.Context, criteria ports.OrderCriteria) (int, error) {
	args := m.Called(ctx, criteria)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderReader) List(
	ctx context.Context, offset, limit int, sort listing.SortCriteria,
) ([]*order.Order, error) {
	args := m.Called(ctx, offset, limit, sort)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

const validAddress = "Moscow, Tverskaya street 7, apt 12"

func storedOrder(t *testing.T, id int64, price float64) *order.Order {
	t.Helper()
	note := "ring twice"
	o, err := order.RestoreOrder(id, "pizza", validAddress, &note,
		kernel.MustParseGeoPoint("55.762922", "37.739982"), price, order.Processing)
	require.NoError(t, err)
	return o
}

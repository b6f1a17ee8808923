package queries

import (
	"errors"
	"fmt"

	"deliveryorders/internal/pkg/errs"
	"deliveryorders/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches one order with the requested optional fields.
//
// Example:
//
//	query, err := NewGetOrderQuery(42, "latitude,longitude")
//	if err != nil {
//	    return err
//	}
//	projection, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // respond 404
//	}
type GetOrderQuery struct {
	orderID int64
	fields  string

	guard guard.ConstructorGuard
}

// NewGetOrderQuery accepts any fields string; unknown names are dropped when
// the order is projected.
func NewGetOrderQuery(orderID int64, fields string) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"order id", fmt.Errorf("%d is not greater than 0", orderID))
	}

	return GetOrderQuery{
		orderID: orderID,
		fields:  fields,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}

// Fields returns the comma-separated optional field list as requested.
func (q GetOrderQuery) Fields() string {
	return q.fields
}

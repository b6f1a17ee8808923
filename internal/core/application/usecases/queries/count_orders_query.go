package queries

import (
	"errors"

	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/core/ports"
	"deliveryorders/internal/pkg/guard"
)

var ErrCountOrdersQueryIsNotConstructed = errors.New(
	"CountOrdersQuery must be created via NewCountOrdersQuery constructor",
)

// CountOrdersQuery counts stored orders, optionally by status.
type CountOrdersQuery struct {
	criteria ports.OrderCriteria

	guard guard.ConstructorGuard
}

// NewCountOrdersQuery accepts order.Unknown as "any status".
func NewCountOrdersQuery(criteria ports.OrderCriteria) (CountOrdersQuery, error) {
	if criteria.Status != order.Unknown {
		if err := criteria.Status.Validate(); err != nil {
			return CountOrdersQuery{}, err
		}
	}

	return CountOrdersQuery{
		criteria: criteria,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q CountOrdersQuery) Validate() error {
	return q.guard.Validate(ErrCountOrdersQueryIsNotConstructed)
}

func (q CountOrdersQuery) Criteria() ports.OrderCriteria {
	return q.criteria
}

package queries

import (
	"errors"
	"fmt"

	"deliveryorders/internal/pkg/errs"
	"deliveryorders/internal/pkg/guard"
)

var ErrGetOrdersPageQueryIsNotConstructed = errors.New(
	"GetOrdersPageQuery must be created via NewGetOrdersPageQuery constructor",
)

// GetOrdersPageQuery lists one page of orders.
//
// Page is one-based; zero means "first page" and zero page size means the
// default size. Negative values are rejected. Pages past the end are not an
// error, they resolve to the first page.
//
// Example:
//
//	query, _ := NewGetOrdersPageQuery(2, 10, "latitude", "asc_price, desc_id")
//	page, err := handler.Handle(ctx, query)
//	fmt.Println(page.Window.Page, page.Window.HasNextPage, len(page.Orders))
type GetOrdersPageQuery struct {
	page     int
	pageSize int
	fields   string
	orderBy  string

	guard guard.ConstructorGuard
}

func NewGetOrdersPageQuery(page, pageSize int, fields, orderBy string) (GetOrdersPageQuery, error) {
	var problems []error
	if page < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("page", fmt.Errorf("%d is negative", page)))
	}
	if pageSize < 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("page size", fmt.Errorf("%d is negative", pageSize)))
	}
	if err := errors.Join(problems...); err != nil {
		return GetOrdersPageQuery{}, err
	}

	return GetOrdersPageQuery{
		page:     page,
		pageSize: pageSize,
		fields:   fields,
		orderBy:  orderBy,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrdersPageQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersPageQueryIsNotConstructed)
}

func (q GetOrdersPageQuery) Page() int {
	return q.page
}

func (q GetOrdersPageQuery) PageSize() int {
	return q.pageSize
}

func (q GetOrdersPageQuery) Fields() string {
	return q.fields
}

// OrderBy returns the raw sort specification, e.g. "asc_price, desc_id".
func (q GetOrdersPageQuery) OrderBy() string {
	return q.orderBy
}

package order

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/pkg/errs"
)

// Text bounds, counted in characters.
const (
	MinCompositionLength = 1
	MaxCompositionLength = 600
	MinAddressLength     = 20
	MaxAddressLength     = 600
	MaxAdditionalLength  = 600
)

var (
	ErrOrderIsNotConstructed = errors.New("order must be created via NewOrder or RestoreOrder constructors")

	// ErrStatusAlreadyApplied is returned by ChangeStatus when the order is
	// already in the requested status. Nothing changes in that case.
	ErrStatusAlreadyApplied = errors.New("status is already applied")

	ErrStatusTransitionIsNotAllowed = errors.New("status transition is not allowed")
	ErrIDIsAlreadyAssigned          = errors.New("order id is already assigned")
)

// Order is the delivery order aggregate.
//
// The id is zero until the order is first persisted. Price and the initial
// Processing status are set by NewOrder and never supplied by a client.
type Order struct {
	id          int64
	composition string
	address     string
	additional  *string
	price       float64
	status      Status
	location    kernel.GeoPoint

	isConstructed bool
}

// NewOrder creates an unsaved order in Processing status.
func NewOrder(composition, address string, additional *string, location kernel.GeoPoint, price float64) (*Order, error) {
	o := &Order{
		status:        Processing,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setComposition(composition),
		o.setAddress(address),
		o.setAdditional(additional),
		o.setLocation(location),
		o.setPrice(price),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds a persisted order. It applies the same checks as
// NewOrder plus a positive id and a valid status.
func RestoreOrder(
	id int64,
	composition, address string,
	additional *string,
	location kernel.GeoPoint,
	price float64,
	status Status,
) (*Order, error) {
	o, err := NewOrder(composition, address, additional, location, price)
	if err != nil {
		return nil, err
	}

	if err := errors.Join(o.setID(id), o.setStatus(status)); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares persisted orders by id. Unsaved orders are never equal.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != 0 && o.id == other.id
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Composition() string {
	return o.composition
}

func (o *Order) Address() string {
	return o.address
}

// Additional returns the optional client note, nil when none was given.
func (o *Order) Additional() *string {
	if o.additional == nil {
		return nil
	}
	v := *o.additional
	return &v
}

func (o *Order) Price() float64 {
	return o.price
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Location() kernel.GeoPoint {
	return o.location
}

// AssignID records the storage-assigned id. It can be called once.
func (o *Order) AssignID(id int64) error {
	if o.id != 0 {
		return fmt.Errorf("%w: %d", ErrIDIsAlreadyAssigned, o.id)
	}
	return o.setID(id)
}

// ChangeStatus moves the order to target. It returns ErrStatusAlreadyApplied
// when the order already has that status.
func (o *Order) ChangeStatus(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if o.status == target {
		return ErrStatusAlreadyApplied
	}
	if !o.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusTransitionIsNotAllowed, o.status, target)
	}

	o.status = target
	return nil
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id))
	}
	o.id = id
	return nil
}

func (o *Order) setComposition(composition string) error {
	if err := checkLength("composition", composition, MinCompositionLength, MaxCompositionLength); err != nil {
		return err
	}
	o.composition = composition
	return nil
}

func (o *Order) setAddress(address string) error {
	if err := checkLength("address", address, MinAddressLength, MaxAddressLength); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setAdditional(additional *string) error {
	if additional == nil {
		o.additional = nil
		return nil
	}
	if err := checkLength("additional", *additional, 0, MaxAdditionalLength); err != nil {
		return err
	}
	v := *additional
	o.additional = &v
	return nil
}

func (o *Order) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

func (o *Order) setPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%v is negative", price))
	}
	o.price = price
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func checkLength(name, value string, minLength, maxLength int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 && minLength > 0 {
		return errs.NewValueIsRequiredError(name)
	}
	if n < minLength || n > maxLength {
		return errs.NewValueIsOutOfRangeError(name, n, minLength, maxLength)
	}
	return nil
}

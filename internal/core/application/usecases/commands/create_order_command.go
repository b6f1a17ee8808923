package commands

import (
	"errors"
	"unicode/utf8"

	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/pkg/errs"
	"deliveryorders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a client request to place a delivery order.
// Price and status are never part of it; the handler decides both.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("pizza, cola", "Moscow, Tverskaya street 7", nil, "55.762922", "37.739982")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrDeliveryIsNotPossible) {
//	    // destination is outside every pricing tier
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	composition string
	address     string
	additional  *string
	location    kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates text lengths in characters and parses the
// coordinates. All problems are reported together.
func NewCreateOrderCommand(
	composition, address string,
	additional *string,
	latitude, longitude string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setComposition(composition),
		cmd.setAddress(address),
		cmd.setAdditional(additional),
		cmd.setLocation(latitude, longitude),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Composition() string {
	return c.composition
}

func (c CreateOrderCommand) Address() string {
	return c.address
}

// Additional returns the optional note, nil when absent.
func (c CreateOrderCommand) Additional() *string {
	return c.additional
}

// Location returns the delivery destination.
func (c CreateOrderCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *CreateOrderCommand) setComposition(composition string) error {
	if composition == "" {
		return errs.NewValueIsRequiredError("composition")
	}
	if n := utf8.RuneCountInString(composition); n > order.MaxCompositionLength {
		return errs.NewValueIsOutOfRangeError("composition", n, order.MinCompositionLength, order.MaxCompositionLength)
	}

	c.composition = composition
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	if n := utf8.RuneCountInString(address); n < order.MinAddressLength || n > order.MaxAddressLength {
		return errs.NewValueIsOutOfRangeError("address", n, order.MinAddressLength, order.MaxAddressLength)
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setAdditional(additional *string) error {
	if additional == nil {
		return nil
	}
	if n := utf8.RuneCountInString(*additional); n > order.MaxAdditionalLength {
		return errs.NewValueIsOutOfRangeError("additional", n, 0, order.MaxAdditionalLength)
	}

	v := *additional
	c.additional = &v
	return nil
}

func (c *CreateOrderCommand) setLocation(latitude, longitude string) error {
	location, err := kernel.ParseGeoPoint(latitude, longitude)
	if err != nil {
		return err
	}

	c.location = location
	return nil
}

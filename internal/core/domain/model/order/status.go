package order

import (
	"fmt"

	"deliveryorders/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Processing ──> Delivered
type Status int

const (
	// Unknown is the zero value and is never stored.
	Unknown Status = iota
	Processing
	Delivered
)

var statusNames = map[Status]string{
	Processing: "processing",
	Delivered:  "delivered",
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Processing, Delivered}
}

// ParseStatus maps the stored or wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", name))
}

// String returns the wire name: "processing", "delivered" or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	return s == Processing && target == Delivered
}

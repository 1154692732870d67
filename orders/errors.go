package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrPackageNotFound    = errors.New("service package not found")
	ErrCustomerBlocked    = errors.New("customer account is blocked")
	ErrNotAuthorized      = errors.New("actor is not authorized for this order")
	ErrAlreadyCompleted   = errors.New("order is already completed")
	ErrDelegateCapReached = errors.New("delegate has reached the active order limit")
)

// InvalidTransitionError reports a rejected status change with both
// sides of the attempted move.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition: %s -> %s", e.From, e.To)
}

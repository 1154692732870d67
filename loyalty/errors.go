package loyalty

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
	ErrZeroPointsChange   = errors.New("points change must be non-zero")
)

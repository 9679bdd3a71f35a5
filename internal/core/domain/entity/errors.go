package entity

import "errors"

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerHasOrders = errors.New("customer has associated orders")
	ErrDuplicateEmail    = errors.New("a customer with this email already exists")
	ErrNameRequired      = errors.New("name is required")
	ErrPhoneRequired     = errors.New("phone is required")

	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderMustHaveItems = errors.New("order must have at least one item")
	ErrInvalidRate        = errors.New("exchange_rate must be greater than 0")
	ErrOrderNotPending    = errors.New("only pending orders can be deleted")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrStatusRegression   = errors.New("order status cannot move backwards")
)

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer can place any number of orders.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string // optional
	CreatedAt time.Time
}

// NewCustomer validates the required fields and assigns an ID.
func NewCustomer(name, phone, email string) (*Customer, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	return &Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

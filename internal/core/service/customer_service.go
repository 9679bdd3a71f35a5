package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/ports"
	"github.com/jcmexdev/shopmanager/internal/pkg/metrics"
)

// CustomerPatch is a partial update: nil fields are left untouched.
type CustomerPatch struct {
	Name  *string
	Phone *string
	Email *string
}

// CustomerService handles customer registration and the protection
// rule that a customer with orders cannot be removed.
type CustomerService struct {
	customers ports.CustomerRepository
	orders    ports.OrderRepository
}

func NewCustomerService(customers ports.CustomerRepository, orders ports.OrderRepository) *CustomerService {
	return &CustomerService{
		customers: customers,
		orders:    orders,
	}
}

// Create registers a new customer, rejecting a duplicate email when
// one is provided.
func (s *CustomerService) Create(ctx context.Context, name, phone, email string) (*entity.Customer, error) {
	if email != "" {
		existing, err := s.customers.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("lookup email: %w", err)
		}
		if existing != nil {
			return nil, entity.ErrDuplicateEmail
		}
	}

	customer, err := entity.NewCustomer(name, phone, email)
	if err != nil {
		return nil, err
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}

	metrics.CustomersCreated.Inc()
	slog.InfoContext(ctx, "customer created", "customer_id", customer.ID)
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*entity.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// List returns a page of customers ordered by name. The page size is
// capped at 200.
func (s *CustomerService) List(ctx context.Context, skip, limit int) ([]entity.Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if skip < 0 {
		skip = 0
	}
	return s.customers.List(ctx, skip, limit)
}

// Update applies a partial update, checking email uniqueness when the
// email is changing.
func (s *CustomerService) Update(ctx context.Context, id string, patch CustomerPatch) (*entity.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != "" && *patch.Email != customer.Email {
		existing, err := s.customers.FindByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, fmt.Errorf("lookup email: %w", err)
		}
		if existing != nil {
			return nil, entity.ErrDuplicateEmail
		}
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, entity.ErrNameRequired
		}
		customer.Name = *patch.Name
	}
	if patch.Phone != nil {
		if *patch.Phone == "" {
			return nil, entity.ErrPhoneRequired
		}
		customer.Phone = *patch.Phone
	}
	if patch.Email != nil {
		customer.Email = *patch.Email
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// Delete removes a customer unless orders reference them.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.orders.CountByCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d order(s)", entity.ErrCustomerHasOrders, count)
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	slog.InfoContext(ctx, "customer deleted", "customer_id", id)
	return nil
}

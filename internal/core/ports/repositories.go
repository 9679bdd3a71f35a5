package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
)

// CustomerRepository persists customers. Implementations return
// entity.ErrCustomerNotFound when a lookup misses.
type CustomerRepository interface {
	Save(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
	FindByID(ctx context.Context, id string) (*entity.Customer, error)
	// FindByEmail returns (nil, nil) when no customer has the email.
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
	// List returns a page of customers ordered by name.
	List(ctx context.Context, skip, limit int) ([]entity.Customer, error)
	Delete(ctx context.Context, id string) error
}

// OrderFilter narrows List results. Zero values mean "no filter".
type OrderFilter struct {
	CustomerID string
	Status     entity.OrderStatus
	Skip       int
	Limit      int
}

// OrderSummary is the aggregate view behind the dashboard.
type OrderSummary struct {
	Total       int             `json:"total"`
	Pending     int             `json:"pending"`
	InWarehouse int             `json:"in_warehouse"`
	Shipped     int             `json:"shipped"`
	TotalUSD    decimal.Decimal `json:"total_usd"`
	TotalCLP    decimal.Decimal `json:"total_clp"`
}

// OrderRepository persists orders together with their items; an item
// never exists outside its order. Implementations return
// entity.ErrOrderNotFound when a lookup misses.
type OrderRepository interface {
	// Save writes the order and all of its items atomically.
	Save(ctx context.Context, o *entity.Order) error
	// FindByID returns the order with its items loaded.
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	// List returns orders newest first, items not loaded.
	List(ctx context.Context, f OrderFilter) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	// Delete removes the order and cascades to its items.
	Delete(ctx context.Context, id string) error
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	Summary(ctx context.Context) (*OrderSummary, error)
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/ports"
)

// In-memory repositories for tests. They mirror the sqlite behaviour
// closely enough for the service rules: sentinel errors on misses,
// name ordering for customers, newest-first ordering for orders.

var _ ports.CustomerRepository = (*memCustomerRepo)(nil)

type memCustomerRepo struct {
	mu        sync.RWMutex
	customers map[string]entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[string]entity.Customer)}
}

func (r *memCustomerRepo) Save(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return entity.ErrCustomerNotFound
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) FindByID(_ context.Context, id string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, entity.ErrCustomerNotFound
	}
	return &c, nil
}

func (r *memCustomerRepo) FindByEmail(_ context.Context, email string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Email == email {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) List(_ context.Context, skip, limit int) ([]entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return entity.ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

var _ ports.OrderRepository = (*memOrderRepo)(nil)

type memOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]entity.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]entity.Order)}
}

func (r *memOrderRepo) Save(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) List(_ context.Context, f ports.OrderFilter) ([]entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Skip >= len(out) {
		return nil, nil
	}
	out = out[f.Skip:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return entity.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *memOrderRepo) Summary(_ context.Context) (*ports.OrderSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &ports.OrderSummary{TotalUSD: decimal.Zero, TotalCLP: decimal.Zero}
	for _, o := range r.orders {
		s.Total++
		switch o.Status {
		case entity.StatusPending:
			s.Pending++
		case entity.StatusInWarehouse:
			s.InWarehouse++
		case entity.StatusShipped:
			s.Shipped++
		}
		s.TotalUSD = s.TotalUSD.Add(o.TotalUSD)
		s.TotalCLP = s.TotalCLP.Add(o.TotalCLP)
	}
	return s, nil
}

// memCache is an in-process Cache for tests.
type memCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
	hits   int
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string]string)}
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.(string)
	c.sets++
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.values[key]
	if v != "" {
		c.hits++
	}
	return v, nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

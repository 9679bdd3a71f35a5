package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/domain/pricing"
	"github.com/jcmexdev/shopmanager/internal/core/ports"
	"github.com/jcmexdev/shopmanager/internal/pkg/cache"
	"github.com/jcmexdev/shopmanager/internal/pkg/metrics"
)

// summaryTTL keeps the dashboard snappy without letting the counters
// go stale for long.
const summaryTTL = 30 * time.Second

// NewOrderItem carries the already-coerced pricing inputs for one
// line of a new order. Coercion of the loosely-typed form fields
// happens at the transport layer via the pricing helpers.
type NewOrderItem struct {
	ProductName       string
	Quantity          int
	BaseUnitPriceUSD  decimal.Decimal
	TaxPercent        decimal.Decimal
	CommissionPercent decimal.Decimal
}

// CreateOrderInput is everything needed to create an order.
type CreateOrderInput struct {
	CustomerID   string
	ExchangeRate decimal.Decimal
	Items        []NewOrderItem
}

// OrderService orchestrates order creation, the status pipeline, and
// the delete rule. Pricing always goes through the pricing package;
// totals are written once at creation and never recomputed.
type OrderService struct {
	orders    ports.OrderRepository
	customers ports.CustomerRepository
	cache     cache.Cache // nil-safe: summary caching skipped if nil
}

func NewOrderService(orders ports.OrderRepository, customers ports.CustomerRepository, c cache.Cache) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		cache:     c,
	}
}

// Create validates the input, prices every line, and persists the
// order with status pending.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, entity.ErrOrderMustHaveItems
	}
	if !in.ExchangeRate.IsPositive() {
		return nil, entity.ErrInvalidRate
	}

	if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:           uuid.NewString(),
		CustomerID:   in.CustomerID,
		Status:       entity.StatusPending,
		ExchangeRate: in.ExchangeRate,
		CreatedAt:    now,
	}

	inputs := make([]pricing.ItemInput, len(in.Items))
	for i, it := range in.Items {
		inputs[i] = pricing.ItemInput{
			Quantity:          it.Quantity,
			BaseUnitPriceUSD:  it.BaseUnitPriceUSD,
			TaxPercent:        it.TaxPercent,
			CommissionPercent: it.CommissionPercent,
		}

		computed := pricing.ComputeItem(inputs[i])
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		order.Items = append(order.Items, entity.OrderItem{
			ID:                uuid.NewString(),
			OrderID:           order.ID,
			ProductName:       it.ProductName,
			Quantity:          qty,
			BaseUnitPriceUSD:  it.BaseUnitPriceUSD,
			TaxPercent:        it.TaxPercent,
			CommissionPercent: it.CommissionPercent,
			TaxUSD:            computed.TaxUSD,
			CommissionUSD:     computed.CommissionUSD,
			FinalUnitPriceUSD: computed.FinalUnitPriceUSD,
			SubtotalUSD:       computed.SubtotalUSD,
			CreatedAt:         now,
		})
	}

	totals := pricing.ComputeOrderTotals(inputs, in.ExchangeRate)
	order.SubtotalUSD = totals.SubtotalUSD
	order.TotalUSD = totals.TotalUSD
	order.TotalCLP = totals.TotalCLP

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	s.invalidateSummary(ctx)
	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"customer_id", order.CustomerID,
		"total_usd", order.TotalUSD.StringFixed(2),
	)
	return order, nil
}

// Get returns an order with its items.
func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// List returns orders newest first, optionally filtered by customer
// and status. The page size is capped at 200.
func (s *OrderService) List(ctx context.Context, f ports.OrderFilter) ([]entity.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, entity.ErrInvalidStatus
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	return s.orders.List(ctx, f)
}

// UpdateStatus moves an order to the target status. The pipeline only
// moves forward; a regression is rejected, advancing past the end
// cannot happen because shipped is already the last rank.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, target entity.OrderStatus) (*entity.Order, error) {
	if !target.Valid() {
		return nil, entity.ErrInvalidStatus
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s → %s", entity.ErrStatusRegression, order.Status, target)
	}

	if err := s.orders.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	metrics.StatusTransitions.WithLabelValues(string(target)).Inc()
	s.invalidateSummary(ctx)
	slog.InfoContext(ctx, "order status updated", "order_id", id, "from", order.Status, "to", target)

	order.Status = target
	return order, nil
}

// Advance moves an order one step along the pipeline. It returns the
// unchanged order when the status is already terminal, so callers can
// treat "nothing to advance" as a normal outcome.
func (s *OrderService) Advance(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target, ok := order.Status.Next()
	if !ok {
		return order, nil
	}
	return s.UpdateStatus(ctx, id, target)
}

// Delete removes an order and its items. Only pending orders can be
// deleted; once fulfillment has begun the order is read-only.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !order.Status.CanDelete() {
		return fmt.Errorf("%w: order is %s", entity.ErrOrderNotPending, order.Status)
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	metrics.OrdersDeleted.Inc()
	s.invalidateSummary(ctx)
	slog.InfoContext(ctx, "order deleted", "order_id", id)
	return nil
}

// Summary returns the dashboard aggregate, served from the cache when
// a fresh copy exists.
func (s *OrderService) Summary(ctx context.Context) (*ports.OrderSummary, error) {
	if s.cache != nil {
		key := s.cache.GenerateKey("orders", "summary")
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var cached ports.OrderSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if err != nil {
			slog.WarnContext(ctx, "summary cache read failed", "error", err)
		}
	}

	summary, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("order summary: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			key := s.cache.GenerateKey("orders", "summary")
			if err := s.cache.Set(ctx, key, string(raw), summaryTTL); err != nil {
				slog.WarnContext(ctx, "summary cache write failed", "error", err)
			}
		}
	}
	return summary, nil
}

func (s *OrderService) invalidateSummary(ctx context.Context) {
	if s.cache == nil {
		return
	}
	key := s.cache.GenerateKey("orders", "summary")
	if err := s.cache.Del(ctx, key); err != nil {
		slog.WarnContext(ctx, "summary cache invalidation failed", "error", err)
	}
}

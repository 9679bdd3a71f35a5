package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a purchase record for one customer. Totals are computed by
// the pricing calculator when the order is created and persisted as-is;
// they are never recomputed from the stored items afterwards, so the
// figures survive later changes to tax or commission rates.
type Order struct {
	ID         string
	CustomerID string
	Status     OrderStatus

	// ExchangeRate is the CLP-per-USD rate captured at creation time.
	ExchangeRate decimal.Decimal

	SubtotalUSD decimal.Decimal
	TotalUSD    decimal.Decimal
	TotalCLP    decimal.Decimal

	Items     []OrderItem
	CreatedAt time.Time
}

// OrderItem is one product line within an order. The raw pricing
// inputs and the derived figures are both stored; items have no
// identity outside their order.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductName string
	Quantity    int

	BaseUnitPriceUSD  decimal.Decimal
	TaxPercent        decimal.Decimal
	CommissionPercent decimal.Decimal

	TaxUSD            decimal.Decimal
	CommissionUSD     decimal.Decimal
	FinalUnitPriceUSD decimal.Decimal
	SubtotalUSD       decimal.Decimal

	CreatedAt time.Time
}

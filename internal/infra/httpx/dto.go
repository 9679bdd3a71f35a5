package httpx

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/domain/pricing"
	"github.com/jcmexdev/shopmanager/internal/core/service"
)

// looseNumber accepts a JSON number, a string-encoded number, a blank
// string, or null. The order form submits hand-typed values, so the
// numeric item fields tolerate all of these and the pricing coercion
// helpers decide the fallback.
type looseNumber string

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = looseNumber(s)
		return nil
	}
	*n = looseNumber(b)
	return nil
}

type CreateOrderRequest struct {
	CustomerID   string               `json:"customer_id"`
	ExchangeRate looseNumber          `json:"exchange_rate"`
	Items        []CreateOrderItemDTO `json:"items"`
}

type CreateOrderItemDTO struct {
	ProductName       string      `json:"product_name"`
	Quantity          looseNumber `json:"quantity"`
	BaseUnitPriceUSD  looseNumber `json:"base_unit_price_usd"`
	TaxPercent        looseNumber `json:"tax_percent"`
	CommissionPercent looseNumber `json:"commission_percent"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

type OrderItemResponse struct {
	ID                string      `json:"id"`
	ProductName       string      `json:"product_name"`
	Quantity          int         `json:"quantity"`
	BaseUnitPriceUSD  json.Number `json:"base_unit_price_usd"`
	TaxPercent        json.Number `json:"tax_percent"`
	CommissionPercent json.Number `json:"commission_percent"`
	TaxUSD            json.Number `json:"tax_usd"`
	CommissionUSD     json.Number `json:"commission_usd"`
	FinalUnitPriceUSD json.Number `json:"final_unit_price_usd"`
	SubtotalUSD       json.Number `json:"subtotal_usd"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	Status       string              `json:"status"`
	ExchangeRate json.Number         `json:"exchange_rate"`
	SubtotalUSD  json.Number         `json:"subtotal_usd"`
	TotalUSD     json.Number         `json:"total_usd"`
	TotalCLP     json.Number         `json:"total_clp"`
	CanAdvance   bool                `json:"can_advance"`
	NextStatus   string              `json:"next_status,omitempty"`
	CanDelete    bool                `json:"can_delete"`
	Items        []OrderItemResponse `json:"items,omitempty"`
	CreatedAt    string              `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// usd2 / usd4 / clp0 encode decimals as raw JSON numbers at the
// precision each field is stored with: 2 decimals for line and order
// totals, 4 for per-unit figures, none for CLP.
func usd2(d decimal.Decimal) json.Number { return json.Number(d.StringFixed(2)) }
func usd4(d decimal.Decimal) json.Number { return json.Number(d.StringFixed(4)) }
func clp0(d decimal.Decimal) json.Number { return json.Number(d.StringFixed(0)) }

func mapCustomerToResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		CreatedAt: formatTimestamp(c.CreatedAt),
	}
}

func mapOrderToResponse(o *entity.Order, withItems bool) OrderResponse {
	res := OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		Status:       string(o.Status),
		ExchangeRate: usd2(o.ExchangeRate),
		SubtotalUSD:  usd2(o.SubtotalUSD),
		TotalUSD:     usd2(o.TotalUSD),
		TotalCLP:     clp0(o.TotalCLP),
		CanAdvance:   o.Status.CanAdvance(),
		CanDelete:    o.Status.CanDelete(),
		CreatedAt:    formatTimestamp(o.CreatedAt),
	}
	if next, ok := o.Status.Next(); ok {
		res.NextStatus = string(next)
	}
	if withItems {
		res.Items = make([]OrderItemResponse, len(o.Items))
		for i, it := range o.Items {
			res.Items[i] = mapItemToResponse(it)
		}
	}
	return res
}

func mapItemToResponse(it entity.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:                it.ID,
		ProductName:       it.ProductName,
		Quantity:          it.Quantity,
		BaseUnitPriceUSD:  usd4(it.BaseUnitPriceUSD),
		TaxPercent:        usd2(it.TaxPercent),
		CommissionPercent: usd2(it.CommissionPercent),
		TaxUSD:            usd4(it.TaxUSD),
		CommissionUSD:     usd4(it.CommissionUSD),
		FinalUnitPriceUSD: usd4(it.FinalUnitPriceUSD),
		SubtotalUSD:       usd2(it.SubtotalUSD),
	}
}

// mapRequestItems applies the lenient coercion policy to the raw form
// fields and produces the typed service input.
func mapRequestItems(dtos []CreateOrderItemDTO) []service.NewOrderItem {
	items := make([]service.NewOrderItem, len(dtos))
	for i, it := range dtos {
		items[i] = service.NewOrderItem{
			ProductName:       it.ProductName,
			Quantity:          pricing.CoerceQuantity(string(it.Quantity)),
			BaseUnitPriceUSD:  pricing.CoerceAmount(string(it.BaseUnitPriceUSD)),
			TaxPercent:        pricing.CoercePercent(string(it.TaxPercent)),
			CommissionPercent: pricing.CoercePercent(string(it.CommissionPercent)),
		}
	}
	return items
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/domain/pricing"
	"github.com/jcmexdev/shopmanager/internal/core/ports"
	"github.com/jcmexdev/shopmanager/internal/core/service"
)

// Handler handles incoming HTTP requests for orders and pricing
// previews.
type Handler struct {
	orders *service.OrderService
}

func NewHandler(orders *service.OrderService) *Handler {
	return &Handler{orders: orders}
}

// CreateOrder receives the raw order payload, coerces the loosely
// typed item fields, and persists a pending order with its computed
// totals.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id is required")
		return
	}
	for _, it := range req.Items {
		if it.ProductName == "" {
			writeError(w, http.StatusBadRequest, "invalid_item", "product_name is required")
			return
		}
	}

	slog.InfoContext(r.Context(), "creating order", "customer_id", req.CustomerID, "items", len(req.Items))

	order, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		CustomerID:   req.CustomerID,
		ExchangeRate: parseRate(string(req.ExchangeRate)),
		Items:        mapRequestItems(req.Items),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order, true))
}

// PreviewOrder prices a payload without persisting anything. The
// order form calls it while the user edits line items.
func (h *Handler) PreviewOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	items := mapRequestItems(req.Items)
	inputs := make([]pricing.ItemInput, len(items))
	itemRes := make([]OrderItemResponse, len(items))
	for i, it := range items {
		inputs[i] = pricing.ItemInput{
			Quantity:          it.Quantity,
			BaseUnitPriceUSD:  it.BaseUnitPriceUSD,
			TaxPercent:        it.TaxPercent,
			CommissionPercent: it.CommissionPercent,
		}
		computed := pricing.ComputeItem(inputs[i])
		itemRes[i] = OrderItemResponse{
			ProductName:       it.ProductName,
			Quantity:          it.Quantity,
			BaseUnitPriceUSD:  usd4(it.BaseUnitPriceUSD),
			TaxPercent:        usd2(it.TaxPercent),
			CommissionPercent: usd2(it.CommissionPercent),
			TaxUSD:            usd4(computed.TaxUSD),
			CommissionUSD:     usd4(computed.CommissionUSD),
			FinalUnitPriceUSD: usd4(computed.FinalUnitPriceUSD),
			SubtotalUSD:       usd2(computed.SubtotalUSD),
		}
	}

	totals := pricing.ComputeOrderTotals(inputs, parseRate(string(req.ExchangeRate)))

	res := struct {
		Items       []OrderItemResponse `json:"items"`
		SubtotalUSD json.Number         `json:"subtotal_usd"`
		TotalUSD    json.Number         `json:"total_usd"`
		TotalCLP    *json.Number        `json:"total_clp"` // null until a rate is entered
	}{
		Items:       itemRes,
		SubtotalUSD: usd2(totals.SubtotalUSD),
		TotalUSD:    usd2(totals.TotalUSD),
	}
	if totals.RateApplied {
		n := clp0(totals.TotalCLP)
		res.TotalCLP = &n
	}

	writeJSON(w, http.StatusOK, res)
}

// GetOrderByID retrieves a single order with its items.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order, true))
}

// ListOrders returns orders newest first, optionally filtered by
// customer_id and status.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	f := ports.OrderFilter{
		CustomerID: r.URL.Query().Get("customer_id"),
		Status:     entity.OrderStatus(r.URL.Query().Get("status")),
		Skip:       queryInt(r, "skip", 0),
		Limit:      queryInt(r, "limit", 50),
	}

	orders, err := h.orders.List(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = mapOrderToResponse(&orders[i], false)
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateOrderStatus moves an order along the pipeline. The target
// status comes from the client, which is expected to have consulted
// next_status/can_advance.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, entity.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order, true))
}

// DeleteOrder removes a pending order and its items.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	if err := h.orders.Delete(r.Context(), orderID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetOrderSummary serves the dashboard aggregate.
func (h *Handler) GetOrderSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// decimal.Decimal marshals as a quoted string; the API promises
	// plain JSON numbers.
	writeJSON(w, http.StatusOK, struct {
		Total       int         `json:"total"`
		Pending     int         `json:"pending"`
		InWarehouse int         `json:"in_warehouse"`
		Shipped     int         `json:"shipped"`
		TotalUSD    json.Number `json:"total_usd"`
		TotalCLP    json.Number `json:"total_clp"`
	}{
		Total:       summary.Total,
		Pending:     summary.Pending,
		InWarehouse: summary.InWarehouse,
		Shipped:     summary.Shipped,
		TotalUSD:    usd2(summary.TotalUSD),
		TotalCLP:    clp0(summary.TotalCLP),
	})
}

// parseRate parses the exchange rate strictly: unlike the item
// fields, a missing or malformed rate must surface as an invalid-rate
// error, not silently become zero-and-valid.
func parseRate(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError maps the domain sentinels onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, entity.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, entity.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, entity.ErrCustomerHasOrders):
		writeError(w, http.StatusConflict, "customer_has_orders", err.Error())
	case errors.Is(err, entity.ErrOrderNotPending):
		writeError(w, http.StatusConflict, "order_not_pending", err.Error())
	case errors.Is(err, entity.ErrStatusRegression):
		writeError(w, http.StatusUnprocessableEntity, "status_regression", err.Error())
	case errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrOrderMustHaveItems),
		errors.Is(err, entity.ErrInvalidRate),
		errors.Is(err, entity.ErrNameRequired),
		errors.Is(err, entity.ErrPhoneRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

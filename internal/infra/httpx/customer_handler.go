package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shopmanager/internal/core/service"
)

// CustomerHandler handles incoming HTTP requests for the customer
// directory.
type CustomerHandler struct {
	customers *service.CustomerService
}

func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	customer, err := h.customers.Create(r.Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "customer registered", "customer_id", customer.ID)
	writeJSON(w, http.StatusCreated, mapCustomerToResponse(customer))
}

func (h *CustomerHandler) GetCustomerByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "customer_id_required", "")
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomerToResponse(customer))
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context(), queryInt(r, "skip", 0), queryInt(r, "limit", 50))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = mapCustomerToResponse(&customers[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	customer, err := h.customers.Update(r.Context(), id, service.CustomerPatch{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomerToResponse(customer))
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.customers.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

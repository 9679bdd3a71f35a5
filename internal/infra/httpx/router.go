package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcmexdev/shopmanager/internal/infra/httpx/middlewares"
)

// NewRouter wires the order and customer handlers plus the health and
// metrics endpoints.
func NewRouter(orders *Handler, customers *CustomerHandler, version string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customers.CreateCustomer)
			r.Get("/", customers.ListCustomers)
			r.Get("/{id}", customers.GetCustomerByID)
			r.Patch("/{id}", customers.UpdateCustomer)
			r.Delete("/{id}", customers.DeleteCustomer)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.CreateOrder)
			r.Get("/", orders.ListOrders)
			r.Post("/preview", orders.PreviewOrder)
			r.Get("/summary", orders.GetOrderSummary)
			r.Get("/{id}", orders.GetOrderByID)
			r.Patch("/{id}/status", orders.UpdateOrderStatus)
			r.Delete("/{id}", orders.DeleteOrder)
		})
	})

	return r
}

// Package metrics exposes the service's Prometheus collectors. All
// collectors are registered on the default registry so the promhttp
// handler mounted in the router picks them up without extra wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmanager_orders_created_total",
		Help: "Orders created since process start.",
	})

	OrdersDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmanager_orders_deleted_total",
		Help: "Orders deleted since process start.",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopmanager_order_status_transitions_total",
		Help: "Order status transitions, labelled by target status.",
	}, []string{"to"})

	CustomersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopmanager_customers_created_total",
		Help: "Customers registered since process start.",
	})
)

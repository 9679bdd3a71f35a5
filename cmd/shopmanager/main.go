package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/shopmanager/internal/core/service"
	"github.com/jcmexdev/shopmanager/internal/infra/httpx"
	"github.com/jcmexdev/shopmanager/internal/infra/storage/sqlite"
	"github.com/jcmexdev/shopmanager/internal/pkg/cache"
	"github.com/jcmexdev/shopmanager/internal/pkg/telemetry"
)

const version = "0.1.0"

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "shopmanager")
	telemetry.InitLogger(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	store, err := sqlite.Open(getEnv("DB_PATH", "./data/shopmanager.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Redis is optional: without it the summary endpoint just hits
	// the database on every call.
	var summaryCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		summaryCache = cache.NewRedisCache(redisAddr, "shopmanager")
	}

	orderSvc := service.NewOrderService(store.Orders(), store.Customers(), summaryCache)
	customerSvc := service.NewCustomerService(store.Customers(), store.Orders())

	router := httpx.NewRouter(httpx.NewHandler(orderSvc), httpx.NewCustomerHandler(customerSvc), version)

	addr := ":" + getEnv("PORT", "8000")
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown error", "error", err)
		}
	}()

	slog.Info("shopmanager running", "addr", addr, "version", version)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jayjaytrn/storefront/config"
	"github.com/jayjaytrn/storefront/internal/auth"
	"github.com/jayjaytrn/storefront/internal/cache"
	"github.com/jayjaytrn/storefront/internal/db"
	"github.com/jayjaytrn/storefront/internal/events"
	"github.com/jayjaytrn/storefront/internal/handlers"
	"github.com/jayjaytrn/storefront/internal/metrics"
	"github.com/jayjaytrn/storefront/internal/middleware"
	"github.com/jayjaytrn/storefront/internal/orders"
	"github.com/jayjaytrn/storefront/internal/outbox"
	"github.com/jayjaytrn/storefront/internal/validation"
	"github.com/jayjaytrn/storefront/logging"
	"github.com/jayjaytrn/storefront/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.GetConfig()

	logger, err := logging.NewSugaredLogger(cfg.LogLevel)
	if err != nil {
		logging.GetSugaredLogger().Fatalw("failed to build logger", "error", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewManager(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	defer database.Close()

	if err = ensureStaff(ctx, database, cfg); err != nil {
		logger.Fatalw("failed to create staff account", "error", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srvMetrics := metrics.NewServerMetrics(reg, "api")

	var catalog handlers.Catalog = database
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		catalog = cache.NewCatalog(database, client, cfg.CacheTTL, logger)
		logger.Infow("catalog cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		defer publisher.Close()

		relay := outbox.NewRelay(database, publisher, cfg.OutboxPollInterval, srvMetrics, logger)
		go relay.Run(ctx)
		logger.Infow("outbox relay started", "brokers", cfg.KafkaBrokers, "topic", cfg.OrderEventsTopic)
	}

	v := validation.New()
	h := &handlers.Handler{
		Database:  database,
		Catalog:   catalog,
		Orders:    orders.NewService(database, v, srvMetrics, logger),
		Tokens:    auth.NewIssuer(cfg),
		Validator: v,
		Logger:    logger,
	}

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           otelhttp.NewHandler(initRouter(h, srvMetrics, reg), "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("graceful shutdown failed", "error", err)
		}
	}()

	logger.Infow("starting server", "address", cfg.RunAddress)
	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("failed to start server", "error", err)
	}
	logger.Info("server stopped")
}

func ensureStaff(ctx context.Context, database db.Database, cfg *config.Config) error {
	if cfg.StaffUsername == "" || cfg.StaffPassword == "" {
		return nil
	}

	hash, err := auth.HashPassword(cfg.StaffPassword)
	if err != nil {
		return err
	}

	err = database.EnsureUser(ctx, models.User{
		Username:     cfg.StaffUsername,
		PasswordHash: hash,
		Role:         models.RoleStaff,
	})
	if err != nil {
		return fmt.Errorf("ensure staff %s: %w", cfg.StaffUsername, err)
	}
	return nil
}

func initRouter(h *handlers.Handler, m *metrics.ServerMetrics, g prometheus.Gatherer) *chi.Mux {
	authenticated := middleware.ValidateAuth(h.Tokens)
	user := middleware.Chain(h.Logger, authenticated)
	staff := middleware.Chain(h.Logger, middleware.RequireStaff, authenticated)
	credentials := middleware.Chain(h.Logger, middleware.ValidateCredentials(h.Validator))

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer)
	r.Use(middleware.Chain(h.Logger,
		middleware.WriteWithCompression,
		middleware.ReadWithCompression,
		middleware.Observe(m),
		middleware.WithLogging,
	))

	r.Get(`/health`, h.Health)
	r.Handle(`/metrics`, metrics.Handler(g))

	r.With(credentials).Post(`/register`, h.Register)
	r.With(credentials).Post(`/login`, h.Login)
	r.Post(`/refresh`, h.Refresh)

	r.Get(`/categories`, h.ListCategories)
	r.Get(`/status`, h.ListStatuses)
	r.Get(`/products`, h.ListProducts)
	r.Get(`/products/{id}`, h.GetProduct)
	r.With(staff).Post(`/products`, h.CreateProduct)
	r.With(staff).Put(`/products/{id}`, h.UpdateProduct)

	r.Post(`/orders`, h.CreateOrder)
	r.With(staff).Get(`/orders`, h.ListOrders)
	r.With(staff).Get(`/orders/status/{statusId}`, h.ListOrdersByStatus)
	r.With(user).Get(`/orders/user/{username}`, h.ListUserOrders)
	r.With(user).Get(`/orders/{id}`, h.GetOrder)
	r.With(staff).Patch(`/orders/{id}`, h.ChangeStatus)
	r.With(user).Post(`/orders/{id}/opinions`, h.AddOpinion)

	return r
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"atelier-backend/api/routes"
	"atelier-backend/internal/auth"
	cartsvc "atelier-backend/internal/cart"
	checkoutsvc "atelier-backend/internal/checkout"
	ordersvc "atelier-backend/internal/orders"
	productsvc "atelier-backend/internal/products"
	subscribersvc "atelier-backend/internal/subscribers"
	usersvc "atelier-backend/internal/users"
	"atelier-backend/pkg/auth/session"
	"atelier-backend/pkg/config"
	"atelier-backend/pkg/db"
	"atelier-backend/pkg/logger"
	"atelier-backend/pkg/migrate"
	"atelier-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api terminated", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, dbErr := db.New(ctx, cfg.DB, logg)
	if dbErr != nil {
		return dbErr
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if migErr := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); migErr != nil {
		return migErr
	}

	redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
	if redisErr != nil {
		return redisErr
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessions := session.NewManager(redisClient, redisClient, cfg.JWT.SessionTTL())

	usersRepo := usersvc.NewRepository(dbClient.DB())
	productsRepo := productsvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	checkoutRepo := checkoutsvc.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	subscribersRepo := subscribersvc.NewRepository(dbClient.DB())

	productService, svcErr := productsvc.NewService(productsRepo)
	if svcErr != nil {
		return svcErr
	}
	cartService, svcErr := cartsvc.NewService(cartRepo, dbClient, productsRepo)
	if svcErr != nil {
		return svcErr
	}
	authService, svcErr := auth.NewService(usersRepo, cartService, sessions, cfg.JWT, cfg.Password, logg)
	if svcErr != nil {
		return svcErr
	}
	checkoutService, svcErr := checkoutsvc.NewService(checkoutRepo, ordersRepo, cartService, dbClient)
	if svcErr != nil {
		return svcErr
	}
	orderService, svcErr := ordersvc.NewService(ordersRepo, usersRepo, productsRepo)
	if svcErr != nil {
		return svcErr
	}
	userAdminService, svcErr := usersvc.NewAdminService(usersRepo, cfg.Password)
	if svcErr != nil {
		return svcErr
	}
	subscriberService, svcErr := subscribersvc.NewService(subscribersRepo)
	if svcErr != nil {
		return svcErr
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, sessions, registry, routes.Services{
		Auth:        authService,
		Products:    productService,
		Cart:        cartService,
		Checkout:    checkoutService,
		Orders:      orderService,
		Users:       userAdminService,
		Subscribers: subscriberService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case srvErr := <-serveErr:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return srvErr
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(startCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutErr := server.Shutdown(shutdownCtx); shutErr != nil {
		err = multierr.Append(err, shutErr)
	}
	return err
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/campuscart/campuscart-backend/api/routes"
	"github.com/campuscart/campuscart-backend/internal/auth"
	"github.com/campuscart/campuscart-backend/internal/cart"
	"github.com/campuscart/campuscart-backend/internal/checkout"
	"github.com/campuscart/campuscart-backend/internal/media"
	"github.com/campuscart/campuscart-backend/internal/memberships"
	"github.com/campuscart/campuscart-backend/internal/merchandise"
	"github.com/campuscart/campuscart-backend/internal/orders"
	"github.com/campuscart/campuscart-backend/internal/shops"
	"github.com/campuscart/campuscart-backend/pkg/auth/session"
	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/db"
	"github.com/campuscart/campuscart-backend/pkg/logger"
	"github.com/campuscart/campuscart-backend/pkg/metrics"
	"github.com/campuscart/campuscart-backend/pkg/migrate"
	"github.com/campuscart/campuscart-backend/pkg/redis"
	"github.com/campuscart/campuscart-backend/pkg/storage/gcs"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	shopRepo := shops.NewRepository(gormDB)
	membershipRepo := memberships.NewRepository(gormDB)
	merchRepo := merchandise.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       auth.NewRepository(gormDB),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	shopService, err := shops.NewService(shopRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}

	merchService, err := merchandise.NewService(merchRepo, dbClient, shopService)
	if err != nil {
		logg.Error(context.Background(), "failed to create merchandise service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, merchRepo, membershipRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutSessions, err := checkout.NewSessionStore(redisClient, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout session store", err)
		os.Exit(1)
	}
	checkoutService, err := checkout.NewService(dbClient, cartRepo, orderRepo, checkoutSessions, membershipRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, shopService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.NewRegistry())

	router := routes.NewRouter(routes.Deps{
		Config:             cfg,
		Logger:             logg,
		DB:                 dbClient,
		Redis:              redisClient,
		GCS:                gcsClient,
		SessionManager:     sessionManager,
		HTTPMetrics:        httpMetrics,
		AuthService:        authService,
		ShopService:        shopService,
		MembershipStore:    membershipRepo,
		MerchandiseService: merchService,
		CartService:        cartService,
		CheckoutService:    checkoutService,
		OrderService:       orderService,
		MediaService:       mediaService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// Package main initializes and starts the shop HTTP server,
// setting up configuration, logging, stores, services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/brownies/internal/config"
	"github.com/atinyakov/brownies/internal/logger"
	"github.com/atinyakov/brownies/internal/repository"
	"github.com/atinyakov/brownies/internal/server/handler/http"
	"github.com/atinyakov/brownies/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse .env, command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("token signing secret must not be empty")
	}

	// Stores live for the lifetime of the process.
	userRepo := repository.NewFileUserRepository(options.UsersFile)
	catalogRepo := repository.NewMemoryCatalog()
	cartRepo := repository.NewMemoryCartRepository()

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, service.AuthOptions{
		Secret:     []byte(options.JWTSecret),
		TokenTTL:   options.TokenTTL,
		BcryptCost: options.BcryptCost,
	})
	catalogService := service.NewCatalogService(catalogRepo)
	cartService := service.NewCartService(cartRepo)

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth:     &http.AuthHandler{AuthService: authService, Logger: zapLogger},
		Products: &http.ProductHandler{CatalogService: catalogService, Logger: zapLogger},
		Cart: &http.CartHandler{
			CartService:  cartService,
			Logger:       zapLogger,
			EnforceOwner: options.EnforceCartOwner,
		},
	}, authService, zapLogger, http.RouterOptions{
		RequireAuthProducts: options.RequireAuthProducts,
		RequireAuthCheckout: options.RequireAuthCheckout,
	})

	server := &nethttp.Server{
		Addr:         options.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Port),
			zap.String("users_file", options.UsersFile),
			zap.Bool("products_require_auth", options.RequireAuthProducts),
			zap.Bool("checkout_require_auth", options.RequireAuthCheckout),
			zap.Bool("cart_enforce_owner", options.EnforceCartOwner),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/lifecycle"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/shipping"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return err
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)

	// Courier pricing
	table, err := loadZoneTable(ctx, cfg.Shipping, logger)
	if err != nil {
		return fmt.Errorf("failed to load zone table: %w", err)
	}
	calculator := shipping.NewCalculator(table)

	// Order lifecycle policy
	policy, err := lifecycle.ParsePolicy(cfg.Orders.TransitionPolicy)
	if err != nil {
		return fmt.Errorf("failed to configure order lifecycle: %w", err)
	}
	stateMachine := lifecycle.NewStateMachine(policy)
	returns := lifecycle.NewReturnPolicy(cfg.Orders.ReturnWindowDays)
	logger.Info().
		Str("transition_policy", string(policy)).
		Int("return_window_days", cfg.Orders.ReturnWindowDays).
		Int("zones", len(table)).
		Msg("order lifecycle configured")

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, calculator, stateMachine, returns, logger)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, logger)
	adminService := service.NewAdminService(orderRepo, productRepo, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Review:  handler.NewReviewHandler(reviewService, logger),
		Admin:   handler.NewAdminHandler(orderService, adminService, logger),
	}, middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, logger), logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadZoneTable reads the courier zone table from S3 when enabled, falling back
// to the local file system.
func loadZoneTable(ctx context.Context, cfg config.ShippingConfig, logger zerolog.Logger) (shipping.Table, error) {
	fileLoader := shipping.NewFileLoader(logger)

	var s3Loader shipping.Loader
	if cfg.S3.Enabled {
		l, err := shipping.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for the zone table (S3 disabled)")
	}

	loader := shipping.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	return shipping.LoadTable(ctx, loader, cfg.TablePath, logger)
}

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

	"moneyguard/internal/backend"
	"moneyguard/internal/config"
	"moneyguard/internal/currency"
	"moneyguard/internal/logger"
	"moneyguard/internal/validator"
	"moneyguard/internal/wallet"

	_ "moneyguard/internal/docs" // Import swagger docs
)

// @title           Money Guard API
// @version         1.0
// @description     Money Guard keeps a signed-in user's transactions, balance, monthly statistics and exchange rates.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	backendConfig, err := backend.FromAppConfig(appConfig)
	if err != nil {
		return fmt.Errorf("failed to build backend configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := backend.NewFactory(log).CreateBackend(ctx, backendConfig)
	if err != nil {
		return fmt.Errorf("failed to create %s backend: %w", backendConfig.Type, err)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				log.Warnw("backend cleanup failed", "error", err)
			}
		}()
	}

	rates := currency.NewService(
		currency.NewMonobankClient(appConfig.CurrencyAPIURL, &http.Client{Timeout: appConfig.RequestTimeout}),
		appConfig.CurrencyTTL,
		log,
	)

	router := newRouter(routerDeps{
		registry: wallet.NewRegistry(result.Backend, log).WithIdleTTL(appConfig.SessionIdleTTL),
		rates:    rates,
		clock:    time.Now,
		backend:  backendConfig.Type.String(),
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Money Guard server on port %s (%s backend)", appConfig.Port, backendConfig.Type)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info("Server stopped gracefully")
	return nil
}

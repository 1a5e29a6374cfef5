package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"delicia/internal/auth"
	"delicia/internal/backend"
	"delicia/internal/bridge"
	"delicia/internal/cart"
	"delicia/internal/catalog"
	"delicia/internal/config"
	"delicia/internal/domain"
	"delicia/internal/order"
	"delicia/internal/profile"
	"delicia/internal/session"
)

func main() {
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadApp(logger)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	logger.SetLevel(config.NewLogger(cfg.LogLevel).GetLevel())

	store := session.NewFileStore(cfg.SessionFile)
	apiClient := backend.New(cfg.APIBaseURL, cfg.APIKey, cfg.StorageBucket, logger)

	authManager := auth.NewManager(store, apiClient, logger)
	authManager.LoadFromStorage()

	cartManager := cart.NewManager(logger)
	cartManager.Subscribe(func(snap domain.CartSnapshot) {
		logger.Debugf("cart changed: %d items, %d cents", snap.ItemCount, snap.TotalCents)
	})

	catalogService := catalog.New(apiClient, logger)
	orderService := order.New(apiClient, logger)
	resolver := profile.NewResolver(authManager, store, apiClient, logger)
	resolver.Resolve(context.Background())

	srv := bridge.New(cfg.HTTPAddr, logger, bridge.Deps{
		Auth:    authManager,
		Catalog: catalogService,
		Cart:    cartManager,
		Profile: resolver,
		Orders:  orderService,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting ui bridge on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}

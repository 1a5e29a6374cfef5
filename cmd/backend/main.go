package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"delicia/internal/config"
	"delicia/internal/db"
	"delicia/internal/devserver"
	orderrepo "delicia/internal/repository/order"
	productrepo "delicia/internal/repository/product"
	profilerepo "delicia/internal/repository/profile"
	tokenrepo "delicia/internal/repository/token"
)

func main() {
	logger := logrus.New()

	cfg, err := config.LoadBackend(logger)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	logger = config.NewLogger(cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	profileRepo := profilerepo.NewPostgres(pool, logger)
	tokenRepo := tokenrepo.NewPostgres(pool, logger)
	productRepo := productrepo.NewPostgres(pool, logger)
	orderRepo := orderrepo.NewPostgres(pool, logger)

	srv := devserver.New(cfg.HTTPAddr, logger, pool, cfg.APIKey, devserver.Deps{
		Auth:     devserver.NewAuthService(profileRepo, tokenRepo),
		Products: productRepo,
		Profiles: profileRepo,
		Orders:   orderRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting backend server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}

package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"delicia/internal/config"
	"delicia/internal/db"
	"delicia/internal/seed"
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

	if err := seed.Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("seed apply")
	}

	logger.WithField("demo_email", seed.DemoEmail).Info("seed applied")
}

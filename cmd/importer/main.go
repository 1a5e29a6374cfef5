package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"delicia/internal/config"
	"delicia/internal/db"
	"delicia/internal/importer"
	productrepo "delicia/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(filePath)
	if err != nil {
		logger.WithError(err).Fatal("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.WithError(err).Fatal("import failed")
	}

	logger.WithFields(logrus.Fields{
		"count":    count,
		"duration": time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("import finished")
}

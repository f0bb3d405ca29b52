package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/vitalog/internal/config"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/logger"
	"github.com/vitalog/internal/service"
)

func main() {
	var targetDate string
	flag.StringVar(&targetDate, "date", "", "target date YYYY-MM-DD (defaults to today)")
	flag.Parse()

	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if err := db.Init(cfg.DatabasePath); err != nil {
		appLogger.Fatal("failed to initialize database", "error", err.Error())
	}

	rollup := service.NewRollupService(db.DB, appLogger).
		WithWorkers(cfg.RollupWorkers).
		WithHistoryDays(cfg.RollupHistoryDays).
		WithRateLimit(cfg.RollupRatePerSec)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := rollup.Run(ctx, targetDate)
	if err != nil {
		appLogger.Fatal("rollup run failed", "error", err.Error())
	}

	appLogger.Info("rollup summary",
		"date", result.Date,
		"processed", result.Processed,
		"total", result.Total,
		"failed", len(result.Errors))

	// 所有用户都失败时以非零码退出，便于调度系统告警
	if result.Total > 0 && result.Processed == 0 {
		appLogger.Error("rollup processed no users", "errors", result.Errors)
		appLogger.Sync()
		os.Exit(1)
	}
}

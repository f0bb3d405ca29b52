package main

import (
	"log"

	"github.com/vitalog/internal/config"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/logger"
	"github.com/vitalog/internal/router"
)

func main() {
	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		appLogger.Fatal("failed to initialize database", "error", err.Error())
	}

	// 运维账号按需创建，未配置时管理端点不可用
	if err := db.EnsureAdmin(db.DB, cfg.AdminUserName, cfg.AdminPassword); err != nil {
		appLogger.Fatal("failed to ensure admin user", "error", err.Error())
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg, db.DB, appLogger)
	appLogger.Info("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		appLogger.Fatal("failed to run server", "error", err.Error())
	}
}

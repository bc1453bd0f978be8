package main

import (
	"flag"
	"learnpath_backend/internal/app"
	"learnpath_backend/internal/config"
	"learnpath_backend/pkg/configwatcher"
	"learnpath_backend/pkg/logger"
	"log"

	"go.uber.org/zap"
)

// @title LearnPath API
// @version 1.0
// @description 日级学习进度与自适应测验服务
// @BasePath /api/v1
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "仅执行数据库迁移后退出")
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	go configwatcher.WatchConfig(*configPath+"/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("配置文件已更新",
			zap.String("mode", newCfg.Server.Mode),
			zap.Int("max_attempts", newCfg.Learning.MaxAttempts))
	})

	if err := application.Run(); err != nil {
		logger.Log.Fatal("服务运行失败", zap.Error(err))
	}
}

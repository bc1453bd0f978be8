package app

import (
	"context"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/controller"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/service"
	"learnpath_backend/pkg/database"
	"learnpath_backend/pkg/logger"
	"learnpath_backend/pkg/monitoring"
	"learnpath_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用级容器，持有所有长生命周期对象
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine

	authController     *controller.AuthController
	courseController   *controller.CourseController
	learningController *controller.LearningController
	progressController *controller.ProgressController
	healthController   *controller.HealthController
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	log := logger.Log

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnly {
		log.Info("仅迁移模式，迁移完成后退出")
		os.Exit(0)
	}

	redisClient, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承载进度缓存，连不上时降级为直读数据库
		log.Warn("Redis 连接失败，进度缓存停用", zap.Error(err))
		redisClient = nil
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learnpath-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			log.Warn("链路追踪初始化失败", zap.Error(err))
		}
	}

	// 仓储层
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	planRepo := repository.NewStudyPlanRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// 服务层
	activity := service.NewZapActivityRecorder(log)
	cache := service.NewProgressCache(redisClient, log)
	aiService := service.NewAIService(cfg.AI)
	genService := service.NewGenerationService(aiService, log, nil)
	userService := service.NewUserService(userRepo, activity, log)
	planService := service.NewPlanService(userRepo, courseRepo, planRepo, genService, activity, log)
	learningService := service.NewLearningService(
		userRepo, courseRepo, planRepo, questionRepo, progressRepo,
		genService, activity, cache, log, cfg.Learning.MaxAttempts)
	progressService := service.NewProgressService(
		userRepo, courseRepo, questionRepo, progressRepo, learningService, cache, log)

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,

		authController:     controller.NewAuthController(userService, log),
		courseController:   controller.NewCourseController(planService, log),
		learningController: controller.NewLearningController(learningService, log),
		progressController: controller.NewProgressController(progressService, log),
		healthController:   controller.NewHealthController(db, redisClient),
	}
	app.Router = app.setupRouter()
	return app, nil
}

// Run 启动 HTTP 服务并等待停机信号，优雅退出
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("HTTP 服务启动", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("收到停机信号，开始优雅退出")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Log.Info("服务已退出")
	return nil
}

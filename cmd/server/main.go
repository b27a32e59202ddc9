package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/malik111110/student-bot/config"
	"github.com/malik111110/student-bot/internal/api/handler"
	"github.com/malik111110/student-bot/internal/api/middleware"
	"github.com/malik111110/student-bot/internal/api/router"
	"github.com/malik111110/student-bot/internal/repository"
	"github.com/malik111110/student-bot/internal/service"
	"github.com/malik111110/student-bot/internal/worker"
	"github.com/malik111110/student-bot/pkg/database"
	"github.com/malik111110/student-bot/pkg/jwt"
	applogger "github.com/malik111110/student-bot/pkg/logger"
	"github.com/malik111110/student-bot/pkg/redis"
	"github.com/malik111110/student-bot/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("isolation", cfg.Database.Isolation),
	)

	// 3. 链路追踪（未配置 endpoint 时为空操作）
	shutdownTracing, err := tracing.Setup(context.Background(), &cfg.Tracing)
	if err != nil {
		logger.Warn("链路追踪初始化失败，继续运行", zap.Error(err))
	}

	// 4. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.SQLLevel, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：未配置或连接失败时单实例降级运行）
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，分布式锁、限流与当前学年缓存不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db, database.IsolationLevel(cfg.Database.Isolation))
	svc, err := service.NewService(cfg, repo, rdb, logger)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}
	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("注册参数校验规则失败", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	// 7. 后台任务：通知投递 + 成就播报
	var (
		locker  worker.Locker
		limiter middleware.RateLimiter
	)
	if rdb != nil {
		locker = rdb
		limiter = rdb
	}
	runner := worker.NewRunner(logger)
	runner.Every(worker.NewDeliverySweep(svc.Notification, worker.LogSender{Logger: logger}, locker,
		cfg.Notification.BatchSize, cfg.Notification.LockTTL, logger), cfg.Notification.SweepInterval)
	if cfg.Notification.AnnounceInterval > 0 {
		runner.Every(worker.NewAnnouncementJob(svc.Gamification, cfg.Notification.BatchSize, logger),
			cfg.Notification.AnnounceInterval)
	}
	jobCtx, stopJobs := context.WithCancel(context.Background())
	runner.Start(jobCtx)

	// 8. 初始化路由
	jwtMgr := jwt.NewManager(&cfg.Auth)
	engine := router.Setup(cfg, h, jwtMgr, limiter, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 先停后台任务，等待进行中的一轮结束
	stopJobs()
	runner.Stop()

	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("链路追踪关闭异常", zap.Error(err))
	}

	sqlDB.Close()

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go

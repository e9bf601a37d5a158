package main

import (
	"context"
	"flag"
	"os"

	"websecurity/internal/config"
	"websecurity/internal/middleware"
	"websecurity/internal/models"
	"websecurity/internal/repository"
	"websecurity/internal/router"
	"websecurity/internal/service"
	"websecurity/internal/utils"
	"websecurity/pkg/redis_limiter"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", "./config/config.yaml", "配置文件路径")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Fatalf("加载配置失败: %v", err)
	}

	level, _ := logrus.ParseLevel(cfg.Log.Level)
	logger.SetLevel(level)

	// 初始化数据库
	db, err := models.InitDB(cfg)
	if err != nil {
		logger.Fatalf("初始化数据库失败: %v", err)
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 初始化管理员账户
	authService := service.NewAuthService(repository.NewStore(db), jwtManager, cfg, logger)
	if err := authService.InitAdmin(); err != nil {
		logger.Warnf("初始化管理员失败: %v", err)
	}

	// Redis 只用于实体修改锁，未启用时不连接
	var locker middleware.Locker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddress(),
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("Redis连接失败，实体修改锁将在请求时降级: %v", err)
		}
		locker = redis_limiter.NewRedisLimiter(redisClient, 1, "websecurity:lock:", cfg.Redis.GetLockTTL(), logger)
		defer redisClient.Close()
	}

	r := router.SetupRouter(cfg, jwtManager, logger, db, locker)

	addr := cfg.Server.GetAddress()
	logger.Infof("服务器启动在 %s", addr)
	if !cfg.Server.ProductionMode {
		logger.Infof("开发模式: 管理员账号 %s", cfg.Admin.Username)
	}

	if err := r.Run(addr); err != nil {
		logger.Fatalf("启动服务器失败: %v", err)
	}
}

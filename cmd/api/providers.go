package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine    *gin.Engine
	Bootstrap *appuser.BootstrapStaffUseCase
}

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 构造函数的参数需要从Config中提取、或者需要返回cleanup时，编写自定义Provider

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher 启用MQ时连接RabbitMQ，连接失败降级为不发布事件
// 事件只用于下游通知，不影响图书和关系的读写
func providePublisher(cfg *config.Config, logger *zap.Logger) (appbook.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return mq.NoopPublisher{}, func() {}
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		logger.Warn("连接RabbitMQ失败，领域事件不会发布", zap.Error(err))
		return mq.NoopPublisher{}, func() {}
	}
	logger.Info("RabbitMQ连接成功", zap.String("exchange", cfg.MQ.Exchange))

	breaker := circuitbreaker.NewCircuitBreaker("rabbitmq", circuitbreaker.Config{
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
	return mq.NewBreakerPublisher(publisher, breaker), func() { _ = publisher.Close() }
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionTTL 会话有效期与Refresh Token一致
func provideSessionTTL(cfg *config.Config) appuser.SessionTTL {
	return appuser.SessionTTL(cfg.JWT.RefreshTokenExpire)
}

// provideRateLimiter 未启用时返回nil，路由不挂限流中间件
func provideRateLimiter(ctx context.Context, cfg *config.Config) *middleware.RateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return middleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

func provideRouterOptions(cfg *config.Config, logger *zap.Logger, limiter *middleware.RateLimiter) router.Options {
	opts := router.Options{
		Mode:        cfg.Server.Mode,
		Logger:      logger,
		Swagger:     cfg.Server.Mode != gin.ReleaseMode,
		RateLimiter: limiter,
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	if cfg.CORS.Enabled {
		opts.CORS = &middleware.CORSOptions{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			ExposeHeaders:    cfg.CORS.ExposeHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}
	}
	return opts
}

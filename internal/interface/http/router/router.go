// Package router 组装gin引擎：全局中间件 + 路由表
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
)

// Options 路由可选项
type Options struct {
	Mode        string // debug | release | test
	Logger      *zap.Logger
	MetricsPath string                  // 为空时不暴露/metrics，也不挂指标中间件
	Swagger     bool                    // 是否暴露/swagger/*any
	RateLimiter *middleware.RateLimiter // 为nil时不限流
	CORS        *middleware.CORSOptions // 为nil时不处理跨域
}

// Handlers 所有HTTP处理器
type Handlers struct {
	Book     *handler.BookHandler
	Relation *handler.RelationHandler
	User     *handler.UserHandler
	Health   *handler.HealthHandler
}

// New 创建gin引擎并注册路由
//
// 中间件顺序：
//
//	Recovery → Tracing → Logger（可读取trace_id）→ CORS → Metrics → RateLimit → Handler
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(opts.Mode)
	}
	dto.RegisterValidators()

	log := opts.Logger
	if log == nil {
		log = zap.L()
	}

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Tracing(), middleware.Logger(log))
	if opts.CORS != nil {
		r.Use(middleware.CORS(*opts.CORS))
	}
	if opts.MetricsPath != "" {
		r.Use(middleware.Metrics())
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	r.GET("/ping", h.Health.Ping)
	r.GET("/readyz", h.Health.Ready)

	if opts.Swagger {
		// 访问 http://localhost:8080/swagger/index.html 查看API文档
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/refresh", h.User.Refresh)
			users.POST("/logout", requireAuth, h.User.Logout)
			users.GET("/me", requireAuth, h.User.Me)
			users.DELETE("/me", requireAuth, h.User.DeleteMe)
		}

		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)

			// 需要登录，修改/删除的所有者检查在领域层
			books.POST("", requireAuth, h.Book.CreateBook)
			books.PUT("/:id", requireAuth, h.Book.ReplaceBook)
			books.PATCH("/:id", requireAuth, h.Book.PatchBook)
			books.DELETE("/:id", requireAuth, h.Book.DeleteBook)

			books.GET("/:id/relation", requireAuth, h.Relation.GetRelation)
			books.PATCH("/:id/relation", requireAuth, h.Relation.UpsertRelation)
		}
	}

	return r
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSOptions 跨域配置
type CORSOptions struct {
	AllowOrigins     []string // "*"表示任意来源，AllowCredentials为true时不能用"*"
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration // 预检结果缓存时间
}

// CORS 跨域资源共享中间件
//
// 教学要点：
// 1. 不带Origin的请求（curl、服务间调用）直接放行
// 2. Origin不在白名单时返回403
// 3. 预检请求（OPTIONS）在这里结束，不进入限流和鉴权
func CORS(opts CORSOptions) gin.HandlerFunc {
	methods := strings.Join(opts.AllowMethods, ", ")
	headers := strings.Join(opts.AllowHeaders, ", ")
	expose := strings.Join(opts.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(opts.MaxAge / time.Second))

	wildcard := false
	allowed := make(map[string]struct{}, len(opts.AllowOrigins))
	for _, o := range opts.AllowOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		} else if wildcard && !opts.AllowCredentials {
			c.Header("Access-Control-Allow-Origin", "*")
		} else {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if opts.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if expose != "" {
			c.Header("Access-Control-Expose-Headers", expose)
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			if opts.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", maxAge)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

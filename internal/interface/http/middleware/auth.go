package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// TokenBlacklist 已登出Token查询（由persistence/redis.SessionStore实现）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// Context中的key
const (
	ctxKeyClaims = "auth_claims"
	ctxKeyToken  = "auth_token"
)

var (
	errMissingToken   = apperrors.New(apperrors.ErrCodeUnauthorized, "请先登录")
	errMalformedToken = apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误")
	errRevokedToken   = apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性
// 4. 将Claims注入Context，Handler通过GetActor构造授权主体
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, errMissingToken)
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.Error(c, errMalformedToken)
			c.Abort()
			return
		}

		// 用户已登出或Token被强制失效
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, apperrors.Wrap(err, "验证Token失败"))
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, errRevokedToken)
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		c.Set(ctxKeyClaims, claims)
		c.Set(ctxKeyToken, tokenString)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetClaims 从Context获取Token声明，未登录返回nil
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, exists := c.Get(ctxKeyClaims); exists {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAccessToken 当前请求的原始Access Token
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxKeyToken)
}

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// GetActor 构造授权主体
// 说明：用于已经通过RequireAuth中间件的Handler，is_staff来自Token
func GetActor(c *gin.Context) book.Actor {
	claims := GetClaims(c)
	if claims == nil {
		return book.Actor{}
	}
	return book.Actor{UserID: claims.UserID, IsStaff: claims.IsStaff}
}

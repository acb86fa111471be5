package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/database"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// HealthHandler 健康检查
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Ping 存活检查
// @Summary  存活检查
// @Tags     系统
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}

// Ready 就绪检查（数据库可用）
// @Summary  就绪检查
// @Tags     系统
// @Produce  json
// @Success  200 {object} response.Response
// @Failure  500 {object} response.Response "数据库不可用"
// @Router   /readyz [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.db); err != nil {
		response.Error(c, apperrors.Wrap(err, "数据库不可用"))
		return
	}
	response.Success(c, gin.H{"status": "ready"})
}

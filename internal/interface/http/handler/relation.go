package handler

import (
	"github.com/gin-gonic/gin"

	apprelation "github.com/xiebiao/bookshelf/internal/application/relation"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// RelationHandler 用户-图书关系处理器（点赞、收藏、评分）
type RelationHandler struct {
	upsertRelationUseCase *apprelation.UpsertRelationUseCase
	getRelationUseCase    *apprelation.GetRelationUseCase
}

// NewRelationHandler 创建关系处理器
func NewRelationHandler(
	upsertRelationUseCase *apprelation.UpsertRelationUseCase,
	getRelationUseCase *apprelation.GetRelationUseCase,
) *RelationHandler {
	return &RelationHandler{
		upsertRelationUseCase: upsertRelationUseCase,
		getRelationUseCase:    getRelationUseCase,
	}
}

// UpsertRelation 设置当前用户与图书的关系
// @Summary      点赞/收藏/评分
// @Description  不存在则以默认值创建，存在则只修改提供的字段；rate取值1-5
// @Tags         关系
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "图书ID"
// @Param        request body dto.UpsertRelationRequest true "关系字段"
// @Success      200 {object} response.Response{data=apprelation.RelationResponse}
// @Failure      400 {object} response.Response "评分超出范围"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/relation [patch]
func (h *RelationHandler) UpsertRelation(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	var req dto.UpsertRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	result, err := h.upsertRelationUseCase.Execute(c.Request.Context(), apprelation.UpsertRelationRequest{
		Actor:      middleware.GetActor(c),
		BookID:     id,
		Like:       req.Like,
		InBookmark: req.InBookmark,
		Rate:       req.Rate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRelation 查询当前用户与图书的关系
// @Summary      查询关系
// @Description  尚未建立关系时返回默认值（不落库）
// @Tags         关系
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=apprelation.RelationResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/relation [get]
func (h *RelationHandler) GetRelation(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	result, err := h.getRelationUseCase.Execute(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

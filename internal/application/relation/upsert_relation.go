package relation

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
	"github.com/xiebiao/bookshelf/pkg/logger"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "application.relation"

// EventRelationUpserted 关系写入事件
const EventRelationUpserted = "relation.upserted"

// RelationResponse 关系展示DTO
type RelationResponse struct {
	Book       uint   `json:"book"`
	Like       bool   `json:"like"`
	InBookmark bool   `json:"in_bookmark"`
	Rate       int    `json:"rate"`
	RateLabel  string `json:"rate_label"`
}

// ToRelationResponse 领域对象 → 展示DTO
func ToRelationResponse(r *relation.Relation) RelationResponse {
	return RelationResponse{
		Book:       r.BookID,
		Like:       r.Like,
		InBookmark: r.InBookmark,
		Rate:       int(r.Rate),
		RateLabel:  r.Rate.Label(),
	}
}

// RelationEvent 关系事件负载
type RelationEvent struct {
	BookID     uint `json:"book_id"`
	UserID     uint `json:"user_id"`
	Like       bool `json:"like"`
	InBookmark bool `json:"in_bookmark"`
	Rate       int  `json:"rate"`
	Created    bool `json:"created"`
}

// UpsertRelationUseCase 点赞/收藏/评分用例
// 设计说明:
// 1. 只修改请求中提供的字段,重复提交相同内容结果不变
// 2. 并发首次写入的唯一索引冲突在领域服务内重试,这里只记录指标
type UpsertRelationUseCase struct {
	relationService relation.Service
	publisher       appbook.EventPublisher
}

// NewUpsertRelationUseCase 创建用例
func NewUpsertRelationUseCase(relationService relation.Service, publisher appbook.EventPublisher) *UpsertRelationUseCase {
	return &UpsertRelationUseCase{relationService: relationService, publisher: publisher}
}

// UpsertRelationRequest Upsert请求,nil字段不修改
type UpsertRelationRequest struct {
	Actor      book.Actor
	BookID     uint
	Like       *bool
	InBookmark *bool
	Rate       *int
}

// Execute 执行Upsert
func (uc *UpsertRelationUseCase) Execute(ctx context.Context, req UpsertRelationRequest) (_ *RelationResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpsertRelation")
	defer func() { tracing.End(span, err) }()
	span.SetAttributes(attribute.Int64("book.id", int64(req.BookID)))

	outcome, err := uc.relationService.Upsert(ctx, req.Actor, req.BookID, relation.Fields{
		Like:       req.Like,
		InBookmark: req.InBookmark,
		Rate:       req.Rate,
	})
	if err != nil {
		metrics.IncCounterVec(metrics.RelationUpsertsTotal, map[string]string{"result": "error", "retried": "false"})
		return nil, err
	}

	result := "updated"
	if outcome.Created {
		result = "created"
	}
	metrics.IncCounterVec(metrics.RelationUpsertsTotal, map[string]string{
		"result":  result,
		"retried": strconv.FormatBool(outcome.Retried),
	})
	if outcome.Retried {
		logger.FromContext(ctx).Info("关系并发写入冲突，已按更新重试",
			zap.Uint("book_id", req.BookID),
			zap.Uint("user_id", req.Actor.UserID),
		)
	}

	r := outcome.Relation
	appbook.PublishEvent(ctx, uc.publisher, EventRelationUpserted, RelationEvent{
		BookID:     r.BookID,
		UserID:     r.UserID,
		Like:       r.Like,
		InBookmark: r.InBookmark,
		Rate:       int(r.Rate),
		Created:    outcome.Created,
	})

	resp := ToRelationResponse(r)
	return &resp, nil
}

// GetRelationUseCase 查询当前用户对图书的关系
// 尚未建立关系时返回默认值(不落库)
type GetRelationUseCase struct {
	relationService relation.Service
}

// NewGetRelationUseCase 创建用例
func NewGetRelationUseCase(relationService relation.Service) *GetRelationUseCase {
	return &GetRelationUseCase{relationService: relationService}
}

// Execute 执行查询
func (uc *GetRelationUseCase) Execute(ctx context.Context, actor book.Actor, bookID uint) (*RelationResponse, error) {
	r, err := uc.relationService.Get(ctx, actor, bookID)
	if err != nil {
		return nil, err
	}
	resp := ToRelationResponse(r)
	return &resp, nil
}

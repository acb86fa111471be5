package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/logger"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// EventPublisher 领域事件发布端口(由pkg/mq实现)
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data interface{}) error
}

// 事件RoutingKey
const (
	EventBookCreated = "book.created"
	EventBookUpdated = "book.updated"
	EventBookDeleted = "book.deleted"
)

// BookEvent 图书事件负载
type BookEvent struct {
	BookID  uint   `json:"book_id"`
	Name    string `json:"name,omitempty"`
	Price   string `json:"price,omitempty"`
	Author  string `json:"author,omitempty"`
	ActorID uint   `json:"actor_id"`
}

// PublishEvent 事务提交后发布事件
// 学习要点:发布失败只记录日志和指标,不影响已经提交的写操作
func PublishEvent(ctx context.Context, publisher EventPublisher, routingKey string, data interface{}) {
	if publisher == nil {
		return
	}
	result := "success"
	if err := publisher.Publish(ctx, routingKey, data); err != nil {
		result = "failure"
		logger.FromContext(ctx).Warn("领域事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
	metrics.IncCounterVec(metrics.EventsPublishedTotal, map[string]string{
		"routing_key": routingKey,
		"result":      result,
	})
}

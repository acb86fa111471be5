package mq

import (
	"context"

	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
)

// BreakerPublisher 经熔断器发布事件
// RabbitMQ不可用时快速返回circuitbreaker.ErrOpenState，调用方按发布失败处理
type BreakerPublisher struct {
	next    EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerPublisher 包装next
func NewBreakerPublisher(next EventPublisher, breaker *circuitbreaker.CircuitBreaker) *BreakerPublisher {
	return &BreakerPublisher{next: next, breaker: breaker}
}

// Publish 发布事件
func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, data interface{}) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(ctx, routingKey, data)
	})
}

// Close 关闭底层发布者
func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}

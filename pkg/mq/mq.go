// Package mq 基于RabbitMQ的领域事件发布
//
// 设计说明：
//  1. 使用topic类型Exchange，RoutingKey形如book.created、relation.upserted，
//     下游（搜索索引、推荐、统计）按需绑定book.*或#
//  2. 消息体是统一的Event信封（JSON），DeliveryMode为持久化
//  3. 未启用MQ时使用NoopPublisher，业务代码无需判断
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data interface{}) error
	Close() error
}

// Event 事件信封
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"` // 与RoutingKey相同
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// NewEvent 创建事件信封
func NewEvent(routingKey string, data interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher RabbitMQ发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string

	// 一个Channel上的发布串行化
	mu sync.Mutex
}

// NewPublisher 连接RabbitMQ并声明持久化的topic Exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	zap.L().Info("消息发布者已创建", zap.String("exchange", exchange))
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish 发布事件
func (p *Publisher) Publish(ctx context.Context, routingKey string, data interface{}) error {
	msg, err := newPublishing(NewEvent(routingKey, data))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // Mandatory
		false, // Immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	zap.L().Debug("消息已发布", zap.String("routing_key", routingKey), zap.String("message_id", msg.MessageId))
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// newPublishing 序列化事件为AMQP消息
func newPublishing(event Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    event.OccurredAt,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}

// NoopPublisher 未启用MQ时使用，丢弃所有事件
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Close 无操作
func (NoopPublisher) Close() error { return nil }

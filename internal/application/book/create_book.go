package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 所有者固定为当前操作者,请求中无法指定
// 2. 事务提交后发布book.created事件
type CreateBookUseCase struct {
	bookService book.Service
	publisher   EventPublisher
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, publisher EventPublisher) *CreateBookUseCase {
	return &CreateBookUseCase{bookService: bookService, publisher: publisher}
}

// CreateBookRequest 创建请求
type CreateBookRequest struct {
	Actor  book.Actor
	Name   string
	Price  string // 十进制字符串,最多两位小数
	Author string
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (_ *BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBook")
	defer func() {
		recordOperation("create", err)
		tracing.End(span, err)
	}()
	span.SetAttributes(attribute.Int64("actor.id", int64(req.Actor.UserID)))

	detail, err := uc.bookService.CreateBook(ctx, req.Actor, book.CreateParams{
		Name:   req.Name,
		Price:  req.Price,
		Author: req.Author,
	})
	if err != nil {
		return nil, err
	}

	PublishEvent(ctx, uc.publisher, EventBookCreated, BookEvent{
		BookID:  detail.Book.ID,
		Name:    detail.Book.Name,
		Price:   detail.Book.Price.String(),
		Author:  detail.Book.Author,
		ActorID: req.Actor.UserID,
	})

	resp := ToBookResponse(detail)
	return &resp, nil
}

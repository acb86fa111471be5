package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// UpdateBookUseCase 更新图书用例(PUT全量 / PATCH部分)
// 检查顺序:不存在(404) → 无权限(403) → 参数校验(400)
type UpdateBookUseCase struct {
	bookService book.Service
	publisher   EventPublisher
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, publisher EventPublisher) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, publisher: publisher}
}

// UpdateBookRequest 更新请求
// Partial=false时为全量替换:Name、Price必填(由HTTP层校验),Author为nil时置空串
type UpdateBookRequest struct {
	Actor   book.Actor
	ID      uint
	Partial bool
	Name    *string
	Price   *string
	Author  *string
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (_ *BookResponse, err error) {
	op := "replace"
	if req.Partial {
		op = "patch"
	}
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateBook")
	defer func() {
		recordOperation(op, err)
		tracing.End(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("book.id", int64(req.ID)),
		attribute.String("book.op", op),
	)

	var detail *book.Detail
	if req.Partial {
		detail, err = uc.bookService.PatchBook(ctx, req.Actor, req.ID, book.PatchParams{
			Name:   req.Name,
			Price:  req.Price,
			Author: req.Author,
		})
	} else {
		detail, err = uc.bookService.ReplaceBook(ctx, req.Actor, req.ID, book.CreateParams{
			Name:   deref(req.Name),
			Price:  deref(req.Price),
			Author: deref(req.Author),
		})
	}
	if err != nil {
		return nil, err
	}

	PublishEvent(ctx, uc.publisher, EventBookUpdated, BookEvent{
		BookID:  detail.Book.ID,
		Name:    detail.Book.Name,
		Price:   detail.Book.Price.String(),
		Author:  detail.Book.Author,
		ActorID: req.Actor.UserID,
	})

	resp := ToBookResponse(detail)
	return &resp, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

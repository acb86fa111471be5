package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// DeleteBookUseCase 删除图书用例,图书的所有关系一并删除
type DeleteBookUseCase struct {
	bookService book.Service
	publisher   EventPublisher
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(bookService book.Service, publisher EventPublisher) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, publisher: publisher}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, actor book.Actor, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteBook")
	defer func() {
		recordOperation("delete", err)
		tracing.End(span, err)
	}()
	span.SetAttributes(attribute.Int64("book.id", int64(id)))

	if err = uc.bookService.DeleteBook(ctx, actor, id); err != nil {
		return err
	}

	PublishEvent(ctx, uc.publisher, EventBookDeleted, BookEvent{BookID: id, ActorID: actor.UserID})
	return nil
}

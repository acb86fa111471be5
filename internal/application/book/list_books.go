package book

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "application.book"

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持搜索(书名或作者)和排序(price/author升降序)
// 2. 每本书附带点赞数、平均评分、所有者和读者,由领域服务批量聚合
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Search   string // 搜索关键词
	Ordering string // price | -price | author | -author,空为默认(ID升序)
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (_ []BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer func() { tracing.End(span, err) }()

	ordering, err := book.ParseOrdering(req.Ordering)
	if err != nil {
		return nil, err
	}

	details, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Search:   req.Search,
		Ordering: ordering,
	})
	if err != nil {
		return nil, err
	}
	return ToBookResponses(details), nil
}

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (_ *BookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetBook")
	defer func() { tracing.End(span, err) }()

	detail, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookResponse(detail)
	return &resp, nil
}

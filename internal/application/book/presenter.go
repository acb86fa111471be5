package book

import (
	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// BookResponse 图书展示DTO
// 设计说明:
// 1. price、rating使用十进制字符串("10.00"、"4.67"),避免客户端浮点误差
// 2. rating没有任何评分关系时为null
// 3. owner_name为所有者用户名,所有者已删除时为空串
type BookResponse struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Price         string           `json:"price" example:"10.00"`
	Author        string           `json:"author"`
	AnnotatedLike int64            `json:"annotated_like"`
	Rating        *string          `json:"rating" example:"4.67"`
	OwnerName     string           `json:"owner_name"`
	Readers       []ReaderResponse `json:"readers"`
}

// ReaderResponse 读者DTO,按关系创建顺序排列
type ReaderResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToBookResponse 领域对象 → 展示DTO
func ToBookResponse(d *book.Detail) BookResponse {
	resp := BookResponse{
		ID:            d.Book.ID,
		Name:          d.Book.Name,
		Price:         d.Book.Price.String(),
		Author:        d.Book.Author,
		AnnotatedLike: d.AnnotatedLike(),
		OwnerName:     d.OwnerName,
		Readers:       make([]ReaderResponse, 0, len(d.Readers)),
	}
	if r := d.Rating(); r != nil {
		s := r.String()
		resp.Rating = &s
	}
	for _, reader := range d.Readers {
		resp.Readers = append(resp.Readers, ReaderResponse{
			FirstName: reader.FirstName,
			LastName:  reader.LastName,
		})
	}
	return resp
}

// ToBookResponses 批量转换,空结果返回[]而不是null
func ToBookResponses(details []*book.Detail) []BookResponse {
	out := make([]BookResponse, 0, len(details))
	for _, d := range details {
		out = append(out, ToBookResponse(d))
	}
	return out
}

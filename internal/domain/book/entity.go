package book

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格使用Price(int64,单位:分)存储,避免浮点数精度问题
// 2. OwnerID为空表示所有者已被删除
// 3. CachedRating是关系写入时顺带刷新的缓存值,读接口不使用它,
//    对外展示的评分一律由Aggregate实时计算
type Book struct {
	ID           uint
	Name         string
	Price        Price
	Author       string
	OwnerID      *uint
	CachedRating *Rating
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	maxNameLen   = 255
	maxAuthorLen = 255
)

// NewBook 创建新图书(工厂方法)
// ownerID 为当前操作者,调用方不能指定其他所有者
func NewBook(name string, price Price, author string, ownerID uint) (*Book, error) {
	b := &Book{OwnerID: &ownerID}
	if err := b.Replace(name, price, author); err != nil {
		return nil, err
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

// Replace 全量替换可编辑字段(PUT)
func (b *Book) Replace(name string, price Price, author string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(author) > maxAuthorLen {
		return ErrAuthorTooLong
	}
	if price < 0 || price > MaxPrice {
		return ErrInvalidPrice
	}

	b.Name = name
	b.Price = price
	b.Author = author
	b.UpdatedAt = time.Now()
	return nil
}

// Patch 部分更新(PATCH),nil字段保持原值
func (b *Book) Patch(name *string, price *Price, author *string) error {
	newName, newPrice, newAuthor := b.Name, b.Price, b.Author
	if name != nil {
		newName = *name
	}
	if price != nil {
		newPrice = *price
	}
	if author != nil {
		newAuthor = *author
	}
	return b.Replace(newName, newPrice, newAuthor)
}

// IsOwnedBy 检查图书是否归属指定用户
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.OwnerID != nil && *b.OwnerID == userID
}

package book

import (
	"context"
	"strings"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都从context中获取事务(见TxManager),保证同一用例内的读写在同一事务中
type Repository interface {
	// Create 创建图书,回填ID和时间
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 保存可编辑字段(name、price、author)
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书,并级联删除该图书的所有用户关系
	Delete(ctx context.Context, id uint) error

	// List 按搜索条件和排序查询图书
	List(ctx context.Context, params ListParams) ([]*Book, error)

	// Aggregates 按图书分组统计关系表(点赞数、评分和、关系数)
	// 没有关系的图书不会出现在结果中
	Aggregates(ctx context.Context, bookIDs []uint) (map[uint]Aggregate, error)

	// Readers 查询与图书存在关系的用户,按关系创建顺序排列
	Readers(ctx context.Context, bookIDs []uint) (map[uint][]Reader, error)

	// OwnerNames 查询所有者用户名
	OwnerNames(ctx context.Context, ownerIDs []uint) (map[uint]string, error)

	// RefreshCachedRating 根据关系表重新计算并保存books.rating缓存列
	RefreshCachedRating(ctx context.Context, bookID uint) error
}

// TxManager 事务管理器
// fn返回error时回滚,返回nil时提交;fn内的Repository调用共享同一事务
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ListParams 列表查询参数
type ListParams struct {
	Search   string   // 搜索关键词(匹配书名或作者,不区分大小写)
	Ordering Ordering // 排序
}

// OrderField 允许排序的字段
type OrderField string

const (
	OrderByID     OrderField = "id"
	OrderByPrice  OrderField = "price"
	OrderByAuthor OrderField = "author"
)

// Ordering 排序规则,零值表示按ID升序
type Ordering struct {
	Field OrderField
	Desc  bool
}

// ParseOrdering 解析排序参数
// 支持:price、-price、author、-author;空字符串为默认排序(ID升序)
func ParseOrdering(raw string) (Ordering, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ordering{Field: OrderByID}, nil
	}

	desc := strings.HasPrefix(raw, "-")
	field := OrderField(strings.TrimPrefix(raw, "-"))

	switch field {
	case OrderByPrice, OrderByAuthor:
		return Ordering{Field: field, Desc: desc}, nil
	default:
		return Ordering{}, ErrInvalidOrdering
	}
}

package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 读操作公开,写操作显式接收Actor
// 2. 更新/删除的检查顺序:图书不存在(404) → 无权限(403) → 参数校验(400)
// 3. 所有写操作在同一事务中完成
type Service interface {
	// ListBooks 搜索+排序查询图书,附带聚合值
	ListBooks(ctx context.Context, params ListParams) ([]*Detail, error)

	// GetBook 查询单本图书,附带聚合值
	GetBook(ctx context.Context, id uint) (*Detail, error)

	// CreateBook 创建图书,所有者为当前操作者
	CreateBook(ctx context.Context, actor Actor, params CreateParams) (*Detail, error)

	// ReplaceBook 全量更新(PUT)
	ReplaceBook(ctx context.Context, actor Actor, id uint, params CreateParams) (*Detail, error)

	// PatchBook 部分更新(PATCH)
	PatchBook(ctx context.Context, actor Actor, id uint, params PatchParams) (*Detail, error)

	// DeleteBook 删除图书及其所有关系
	DeleteBook(ctx context.Context, actor Actor, id uint) error
}

// CreateParams 创建/全量更新参数
// Price为十进制字符串(如"10.00"),由领域层解析
type CreateParams struct {
	Name   string
	Price  string
	Author string
}

// PatchParams 部分更新参数,nil表示不修改
type PatchParams struct {
	Name   *string
	Price  *string
	Author *string
}

type service struct {
	repo Repository
	tx   TxManager
}

// NewService 创建图书领域服务
func NewService(repo Repository, tx TxManager) Service {
	return &service{repo: repo, tx: tx}
}

// ListBooks 查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Detail, error) {
	books, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, books)
}

// GetBook 查询图书详情
func (s *service) GetBook(ctx context.Context, id uint) (*Detail, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.annotate(ctx, []*Book{b})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, actor Actor, params CreateParams) (*Detail, error) {
	price, err := ParsePrice(params.Price)
	if err != nil {
		return nil, err
	}
	b, err := NewBook(params.Name, price, params.Author, actor.UserID)
	if err != nil {
		return nil, err
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBook(ctx, b.ID)
}

// ReplaceBook 全量更新图书
func (s *service) ReplaceBook(ctx context.Context, actor Actor, id uint, params CreateParams) (*Detail, error) {
	return s.modify(ctx, actor, id, func(b *Book) error {
		price, err := ParsePrice(params.Price)
		if err != nil {
			return err
		}
		return b.Replace(params.Name, price, params.Author)
	})
}

// PatchBook 部分更新图书
func (s *service) PatchBook(ctx context.Context, actor Actor, id uint, params PatchParams) (*Detail, error) {
	return s.modify(ctx, actor, id, func(b *Book) error {
		var price *Price
		if params.Price != nil {
			p, err := ParsePrice(*params.Price)
			if err != nil {
				return err
			}
			price = &p
		}
		return b.Patch(params.Name, price, params.Author)
	})
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, actor Actor, id uint) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !CanModify(actor, b) {
			return ErrForbidden
		}
		return s.repo.Delete(ctx, id)
	})
}

// modify 更新流程:查询 → 权限检查 → 应用修改 → 持久化
func (s *service) modify(ctx context.Context, actor Actor, id uint, apply func(b *Book) error) (*Detail, error) {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !CanModify(actor, b) {
			return ErrForbidden
		}
		if err := apply(b); err != nil {
			return err
		}
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return s.GetBook(ctx, id)
}

// annotate 批量附加聚合值、所有者名称和读者列表
// 每类数据一次查询,不随图书数量增加查询次数
func (s *service) annotate(ctx context.Context, books []*Book) ([]*Detail, error) {
	details := make([]*Detail, len(books))
	if len(books) == 0 {
		return details, nil
	}

	ids := make([]uint, 0, len(books))
	ownerIDs := make([]uint, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
		if b.OwnerID != nil {
			ownerIDs = append(ownerIDs, *b.OwnerID)
		}
	}

	aggregates, err := s.repo.Aggregates(ctx, ids)
	if err != nil {
		return nil, err
	}
	readers, err := s.repo.Readers(ctx, ids)
	if err != nil {
		return nil, err
	}
	owners := map[uint]string{}
	if len(ownerIDs) > 0 {
		if owners, err = s.repo.OwnerNames(ctx, ownerIDs); err != nil {
			return nil, err
		}
	}

	for i, b := range books {
		agg := aggregates[b.ID]
		agg.BookID = b.ID
		d := &Detail{
			Book:      b,
			Aggregate: agg,
			Readers:   readers[b.ID],
		}
		if b.OwnerID != nil {
			d.OwnerName = owners[*b.OwnerID]
		}
		if d.Readers == nil {
			d.Readers = []Reader{}
		}
		details[i] = d
	}
	return details, nil
}

package relation

import (
	"context"
	"errors"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Service 关系领域服务
// 设计说明:
// 1. Upsert以(user, book)为自然键,重复调用不会产生重复记录
// 2. 首次写入遇到并发插入(唯一索引冲突)时,回滚到savepoint后按更新重试一次
// 3. 写入后在同一事务内刷新图书的评分缓存列
type Service interface {
	// Upsert 创建或部分更新当前用户对图书的关系
	Upsert(ctx context.Context, actor book.Actor, bookID uint, fields Fields) (*Outcome, error)

	// Get 查询当前用户对图书的关系,不存在时返回默认值(不落库)
	Get(ctx context.Context, actor book.Actor, bookID uint) (*Relation, error)
}

// Outcome Upsert结果
type Outcome struct {
	Relation *Relation
	Created  bool // 新建(而非更新)
	Retried  bool // 发生过唯一索引冲突并重试
}

type service struct {
	repo  Repository
	books book.Repository
	tx    book.TxManager
}

// NewService 创建关系领域服务
func NewService(repo Repository, books book.Repository, tx book.TxManager) Service {
	return &service{repo: repo, books: books, tx: tx}
}

// Upsert 创建或更新关系
func (s *service) Upsert(ctx context.Context, actor book.Actor, bookID uint, fields Fields) (*Outcome, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	var outcome *Outcome
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.books.FindByID(ctx, bookID); err != nil {
			return err
		}

		out, err := s.upsertOnce(ctx, s.repo.Find, actor.UserID, bookID, fields)
		if errors.Is(err, ErrConflict) {
			// 并发的首次写入已经插入了同一(user, book),按更新处理
			// 普通读在MySQL可重复读下仍看不到对方提交的行,必须用加锁读
			out, err = s.upsertOnce(ctx, s.repo.FindForUpdate, actor.UserID, bookID, fields)
			if errors.Is(err, ErrConflict) {
				return apperrors.Wrap(err, "保存关系失败")
			}
			if out != nil {
				out.Retried = true
			}
		}
		if err != nil {
			return err
		}

		// 显式刷新评分缓存(与关系写入同一事务)
		if err := s.books.RefreshCachedRating(ctx, bookID); err != nil {
			return err
		}
		outcome = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// Get 查询关系
func (s *service) Get(ctx context.Context, actor book.Actor, bookID uint) (*Relation, error) {
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	r, err := s.repo.Find(ctx, actor.UserID, bookID)
	if errors.Is(err, ErrRelationNotFound) {
		return New(actor.UserID, bookID), nil
	}
	return r, err
}

type findFunc func(ctx context.Context, userID, bookID uint) (*Relation, error)

// upsertOnce 查询 → 不存在则插入(savepoint内) / 存在则部分更新
func (s *service) upsertOnce(ctx context.Context, find findFunc, userID, bookID uint, fields Fields) (*Outcome, error) {
	existing, err := find(ctx, userID, bookID)
	switch {
	case err == nil:
		existing.Apply(fields)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &Outcome{Relation: existing}, nil

	case errors.Is(err, ErrRelationNotFound):
		r := New(userID, bookID)
		r.Apply(fields)
		// 嵌套事务 = savepoint,插入失败只回滚这一步,外层事务仍可继续
		err := s.tx.Transaction(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, r)
		})
		if err != nil {
			return nil, err
		}
		return &Outcome{Relation: r, Created: true}, nil

	default:
		return nil, err
	}
}

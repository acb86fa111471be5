package relation

import (
	"context"
)

// Repository 关系仓储接口
type Repository interface {
	// Find 按(userID, bookID)查找,不存在返回ErrRelationNotFound
	Find(ctx context.Context, userID, bookID uint) (*Relation, error)

	// FindForUpdate 同Find,但使用加锁读(SELECT ... FOR UPDATE)
	// 加锁读总是读取最新已提交版本,不受事务快照影响(MySQL可重复读)
	FindForUpdate(ctx context.Context, userID, bookID uint) (*Relation, error)

	// Create 插入新关系,唯一索引冲突时返回ErrConflict
	Create(ctx context.Context, r *Relation) error

	// Update 保存like、in_bookmark、rate
	Update(ctx context.Context, r *Relation) error
}

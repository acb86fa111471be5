package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/relation"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// relationRepository 用户-图书关系仓储实现
type relationRepository struct {
	db *gorm.DB
}

// NewRelationRepository 创建关系仓储
func NewRelationRepository(db *gorm.DB) relation.Repository {
	return &relationRepository{db: db}
}

// Find 按(user_id, book_id)查找
func (r *relationRepository) Find(ctx context.Context, userID, bookID uint) (*relation.Relation, error) {
	return r.find(conn(ctx, r.db), userID, bookID)
}

// FindForUpdate 加锁读
// 学习要点:
// 1. InnoDB可重复读下,普通SELECT读的是事务第一次读时建立的快照,看不到之后别的事务提交的行
// 2. SELECT ... FOR UPDATE是当前读,读最新已提交版本并加行锁
// 3. SQLite不支持行锁,方言会忽略FOR UPDATE子句(SQLite写事务本身是串行的)
func (r *relationRepository) FindForUpdate(ctx context.Context, userID, bookID uint) (*relation.Relation, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID, bookID)
}

func (r *relationRepository) find(db *gorm.DB, userID, bookID uint) (*relation.Relation, error) {
	var model RelationModel
	err := db.
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, relation.ErrRelationNotFound
		}
		return nil, apperrors.Wrap(err, "查询关系失败")
	}
	return toRelationEntity(&model), nil
}

// Create 插入关系
// 学习要点:
// 1. 唯一性由(user_id, book_id)联合唯一索引保证,冲突转换为领域错误ErrConflict
// 2. 外键冲突说明用户已注销(图书已在同一事务内确认存在),不能在这里回查:
//    PostgreSQL中出错的savepoint回滚前不能执行新语句
func (r *relationRepository) Create(ctx context.Context, rel *relation.Relation) error {
	model := &RelationModel{
		UserID:     rel.UserID,
		BookID:     rel.BookID,
		Liked:      rel.Like,
		InBookmark: rel.InBookmark,
		Rate:       int(rel.Rate),
	}

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return relation.ErrConflict
		}
		if isForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(err, "创建关系失败")
	}

	rel.ID = model.ID
	rel.CreatedAt = model.CreatedAt
	rel.UpdatedAt = model.UpdatedAt
	return nil
}

// Update 保存like、in_bookmark、rate
func (r *relationRepository) Update(ctx context.Context, rel *relation.Relation) error {
	model := &RelationModel{ID: rel.ID}
	err := conn(ctx, r.db).Model(model).Updates(map[string]interface{}{
		"liked":       rel.Like,
		"in_bookmark": rel.InBookmark,
		"rate":        int(rel.Rate),
	}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新关系失败")
	}
	rel.UpdatedAt = model.UpdatedAt
	return nil
}

// toRelationEntity GORM模型 → 领域实体
func toRelationEntity(model *RelationModel) *relation.Relation {
	return &relation.Relation{
		ID:         model.ID,
		UserID:     model.UserID,
		BookID:     model.BookID,
		Like:       model.Liked,
		InBookmark: model.InBookmark,
		Rate:       relation.Rate(model.Rate),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

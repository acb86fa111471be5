package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 学习要点：
// 1. 邮箱、用户名唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
// 2. 捕获唯一索引冲突，按冲突列转换为ErrEmailDuplicate / ErrUsernameDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return r.duplicateError(ctx, err, u)
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// duplicateError 判断冲突的是用户名还是邮箱
// TranslateError后错误信息可能不含列名，此时回查一次
func (r *userRepository) duplicateError(ctx context.Context, err error, u *user.User) error {
	switch duplicateColumn(err, "username", "email") {
	case "username":
		return apperrors.ErrUsernameDuplicate
	case "email":
		return apperrors.ErrEmailDuplicate
	}

	var count int64
	if err := conn(ctx, r.db).Model(&UserModel{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询用户失败")
	}
	if count > 0 {
		return apperrors.ErrUsernameDuplicate
	}
	return apperrors.ErrEmailDuplicate
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := conn(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
// 学习要点：邮箱字段有UNIQUE索引，使用First而非Find
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := conn(ctx, r.db).Where("email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 更新用户信息
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	model.ID = u.ID
	model.CreatedAt = u.CreatedAt

	// 使用Save更新所有字段
	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return r.duplicateError(ctx, err, u)
		}
		return apperrors.Wrap(err, "更新用户失败")
	}

	u.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除用户（硬删除）
// 级联规则（同一事务）：
// 1. 该用户拥有的图书owner_id置NULL，图书保留
// 2. 删除该用户的所有关系，并重算受影响图书的评分缓存
// 3. 删除用户
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&UserModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return apperrors.Wrap(err, "查询用户失败")
		}
		if exists == 0 {
			return apperrors.ErrUserNotFound
		}

		if err := tx.Model(&BookModel{}).Where("owner_id = ?", id).UpdateColumn("owner_id", nil).Error; err != nil {
			return apperrors.Wrap(err, "解除图书所有者失败")
		}

		var bookIDs []uint
		if err := tx.Model(&RelationModel{}).Where("user_id = ?", id).Pluck("book_id", &bookIDs).Error; err != nil {
			return apperrors.Wrap(err, "查询用户关系失败")
		}
		if err := tx.Where("user_id = ?", id).Delete(&RelationModel{}).Error; err != nil {
			return apperrors.Wrap(err, "删除用户关系失败")
		}
		if err := refreshCachedRatings(tx, bookIDs); err != nil {
			return apperrors.Wrap(err, "更新评分缓存失败")
		}

		if err := tx.Delete(&UserModel{}, id).Error; err != nil {
			return apperrors.Wrap(err, "删除用户失败")
		}
		return nil
	})
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
	}
}

// toUserEntity GORM模型 → 领域实体
// 说明：这是Repository的重要职责之一，隔离infrastructure层与domain层
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Password:  model.Password,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		IsStaff:   model.IsStaff,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

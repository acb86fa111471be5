package database

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中事务DB的key，使用私有类型避免与其他包冲突
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. context中已有事务时在其上开启嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn返回error时自动ROLLBACK(嵌套时回滚到Savepoint),返回nil时自动COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    b, err := bookRepo.FindByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    return relationRepo.Create(ctx, relation.New(userID, b.ID))
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	db := m.db.WithContext(ctx)
	if tx, ok := txFromContext(ctx); ok {
		db = tx
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return tx, ok
}

// conn 从context获取事务DB,如果没有则使用默认DB
// 教学要点:所有Repository方法都必须通过conn访问数据库,否则会脱离事务
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db.WithContext(ctx)
}

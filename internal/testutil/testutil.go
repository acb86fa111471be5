// Package testutil 测试辅助：内存SQLite数据库与数据构造
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/database"
)

// NewDB 创建独立的内存SQLite数据库并完成迁移
// 每个测试使用随机库名，互不干扰
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
			AutoMigrate: true,
		},
	}
	db, err := database.NewDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture 通过仓储写入测试数据
type Fixture struct {
	t         testing.TB
	Users     user.Repository
	Books     book.Repository
	Relations relation.Repository
}

// NewFixture 基于db创建Fixture
func NewFixture(t testing.TB, db *gorm.DB) *Fixture {
	return &Fixture{
		t:         t,
		Users:     database.NewUserRepository(db),
		Books:     database.NewBookRepository(db),
		Relations: database.NewRelationRepository(db),
	}
}

// User 创建用户（密码字段不是有效的bcrypt哈希，仅用于不需要登录的场景）
func (f *Fixture) User(username, firstName, lastName string) *user.User {
	f.t.Helper()
	u := user.NewUser(username, username+"@example.com", "x", firstName, lastName)
	require.NoError(f.t, f.Users.Create(context.Background(), u))
	return u
}

// Staff 创建管理员
func (f *Fixture) Staff(username string) *user.User {
	f.t.Helper()
	u := user.NewUser(username, username+"@example.com", "x", "", "")
	u.PromoteToStaff()
	require.NoError(f.t, f.Users.Create(context.Background(), u))
	return u
}

// Book 创建图书，price为十进制字符串
func (f *Fixture) Book(name, price, author string, owner *user.User) *book.Book {
	f.t.Helper()
	p, err := book.ParsePrice(price)
	require.NoError(f.t, err)

	var ownerID uint
	if owner != nil {
		ownerID = owner.ID
	}
	b, err := book.NewBook(name, p, author, ownerID)
	require.NoError(f.t, err)
	if owner == nil {
		b.OwnerID = nil
	}
	require.NoError(f.t, f.Books.Create(context.Background(), b))
	return b
}

// Relation 创建关系
func (f *Fixture) Relation(u *user.User, b *book.Book, like bool, rate int) *relation.Relation {
	f.t.Helper()
	r := relation.New(u.ID, b.ID)
	r.Apply(relation.Fields{Like: &like, Rate: &rate})
	require.NoError(f.t, f.Relations.Create(context.Background(), r))
	return r
}

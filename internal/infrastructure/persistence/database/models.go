package database

import (
	"time"
)

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. 用户采用硬删除，删除前由Repository处理图书和关系的级联
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:150;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FirstName string    `gorm:"size:150;not null;default:'';comment:名"`
	LastName  string    `gorm:"size:150;not null;default:'';comment:姓"`
	IsStaff   bool      `gorm:"not null;default:false;comment:管理员"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. OwnerID可为空:所有者被删除时置NULL,图书保留
// 3. Rating是评分缓存列(单位0.01),读接口不使用,以关系表实时聚合为准
type BookModel struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"index:idx_search;size:255;not null;comment:书名"`
	Price     int64      `gorm:"index;not null;comment:价格(分)"`
	Author    string     `gorm:"index:idx_search;size:255;not null;default:'';comment:作者"`
	OwnerID   *uint      `gorm:"index;comment:所有者用户ID"`
	Owner     *UserModel `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Rating    *int64     `gorm:"comment:平均评分缓存(0.01)"`
	CreatedAt time.Time  `gorm:"comment:创建时间"`
	UpdatedAt time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// RelationModel GORM用户-图书关系模型
// 教学要点:
// 1. (user_id, book_id)联合唯一索引保证每个用户对每本书最多一条关系,并发插入由它裁决
// 2. like是SQL保留字,列名使用liked
// 3. 外键ON DELETE CASCADE,Repository删除时也会显式删除,不依赖方言是否启用外键
type RelationModel struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"uniqueIndex:idx_user_book;not null;comment:用户ID"`
	BookID     uint       `gorm:"uniqueIndex:idx_user_book;index;not null;comment:图书ID"`
	User       *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Book       *BookModel `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	Liked      bool       `gorm:"column:liked;not null;default:false;comment:点赞"`
	InBookmark bool       `gorm:"not null;default:false;comment:收藏"`
	Rate       int        `gorm:"not null;default:1;comment:评分(1-5)"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (RelationModel) TableName() string {
	return "user_book_relations"
}

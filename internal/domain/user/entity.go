package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不暴露明文
// 2. IsStaff为管理员标记，授权策略中可以修改任何图书
// 3. FirstName/LastName用于图书读者列表展示，Username用于所有者展示
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	FirstName string
	LastName  string
	IsStaff   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword, firstName, lastName string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PromoteToStaff 提升为管理员
func (u *User) PromoteToStaff() {
	u.IsStaff = true
	u.UpdatedAt = time.Now()
}

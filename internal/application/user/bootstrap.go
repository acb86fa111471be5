package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/user"
)

// BootstrapStaffUseCase 启动时确保管理员账号存在
// 按邮箱查找：存在则提升为管理员，不存在则注册后提升
type BootstrapStaffUseCase struct {
	userService user.Service
}

// NewBootstrapStaffUseCase 创建用例
func NewBootstrapStaffUseCase(userService user.Service) *BootstrapStaffUseCase {
	return &BootstrapStaffUseCase{userService: userService}
}

// StaffAccount 管理员账号配置
type StaffAccount struct {
	Username string
	Email    string
	Password string
}

// Execute 执行初始化，Email为空时跳过
func (uc *BootstrapStaffUseCase) Execute(ctx context.Context, account StaffAccount) error {
	if account.Email == "" {
		return nil
	}
	u, err := uc.userService.EnsureStaff(ctx, user.RegisterParams{
		Username: account.Username,
		Email:    account.Email,
		Password: account.Password,
	})
	if err != nil {
		return err
	}
	zap.L().Info("管理员账号已就绪", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return nil
}

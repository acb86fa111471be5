package user

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/pkg/jwt"
)

// GetProfileUseCase 查询当前用户
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute 执行查询
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*UserInfo, error) {
	u, err := uc.userService.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// DeleteAccountUseCase 注销账号
// 级联：拥有的图书owner置空，所有关系删除；随后让当前Token失效
type DeleteAccountUseCase struct {
	userService user.Service
	logout      *LogoutUseCase
}

// NewDeleteAccountUseCase 创建用例
func NewDeleteAccountUseCase(userService user.Service, logout *LogoutUseCase) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{userService: userService, logout: logout}
}

// Execute 执行注销
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, claims *jwt.Claims, accessToken string) error {
	if err := uc.userService.Delete(ctx, claims.UserID); err != nil {
		return err
	}
	return uc.logout.Execute(ctx, claims, accessToken)
}

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/testutil"
)

func TestBootstrapStaff(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	svc := user.NewServiceWithCost(f.Users, bcrypt.MinCost)
	uc := appuser.NewBootstrapStaffUseCase(svc)
	ctx := context.Background()

	t.Run("邮箱为空跳过", func(t *testing.T) {
		require.NoError(t, uc.Execute(ctx, appuser.StaffAccount{Username: "admin"}))
		_, err := f.Users.FindByEmail(ctx, "")
		assert.Error(t, err)
	})

	t.Run("不存在时注册为管理员", func(t *testing.T) {
		account := appuser.StaffAccount{Username: "admin", Email: "admin@example.com", Password: "admin12345"}
		require.NoError(t, uc.Execute(ctx, account))

		u, err := f.Users.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.True(t, u.IsStaff)

		// 重复执行幂等
		require.NoError(t, uc.Execute(ctx, account))
		again, err := f.Users.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, again.ID)

		_, err = svc.Login(ctx, "admin@example.com", "admin12345")
		assert.NoError(t, err)
	})

	t.Run("已存在的用户被提升", func(t *testing.T) {
		existing := f.User("carol", "Carol", "Ng")
		require.False(t, existing.IsStaff)

		require.NoError(t, uc.Execute(ctx, appuser.StaffAccount{Username: "ignored", Email: "carol@example.com"}))

		u, err := f.Users.FindByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.True(t, u.IsStaff)
		assert.Equal(t, "carol", u.Username)
	})
}

func TestRegisterAndProfile(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	svc := user.NewServiceWithCost(f.Users, bcrypt.MinCost)
	ctx := context.Background()

	info, err := appuser.NewRegisterUseCase(svc).Execute(ctx, appuser.RegisterRequest{
		Username:  "dave",
		Email:     "dave@example.com",
		Password:  "password1",
		FirstName: "Dave",
	})
	require.NoError(t, err)
	assert.False(t, info.IsStaff)

	profile, err := appuser.NewGetProfileUseCase(svc).Execute(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, *info, *profile)
}

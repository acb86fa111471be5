package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. 密码加密、验证等不属于单个实体的逻辑放在Service
// 2. Service依赖Repository接口，不依赖具体实现
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Login 用户登录
	Login(ctx context.Context, email, password string) (*User, error)

	// GetByID 查询用户
	GetByID(ctx context.Context, id uint) (*User, error)

	// Delete 注销账号
	Delete(ctx context.Context, id uint) error

	// EnsureStaff 确保管理员账号存在（启动时根据配置创建或提升）
	EnsureStaff(ctx context.Context, params RegisterParams) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

// RegisterParams 注册参数
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type service struct {
	repo       Repository
	bcryptCost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, bcryptCost: 12}
}

// NewServiceWithCost 指定bcrypt cost（测试中使用bcrypt.MinCost加速）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, bcryptCost: cost}
}

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]{3,150}$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// Register 用户注册
// 业务规则：
// 1. 用户名3-150位，只能包含字母、数字和_.@+-
// 2. 邮箱格式校验
// 3. 密码强度校验（8-20位，包含字母和数字）
// 4. 邮箱、用户名唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if err := validateRegister(params); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(params.Username, params.Email, string(hashedPassword), params.FirstName, params.LastName)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID 查询用户
func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete 注销账号
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// EnsureStaff 按邮箱查找，存在则提升为管理员，不存在则注册后提升
func (s *service) EnsureStaff(ctx context.Context, params RegisterParams) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, params.Email)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		if u, err = s.Register(ctx, params); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if u.IsStaff {
		return u, nil
	}
	u.PromoteToStaff()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

func validateRegister(params RegisterParams) error {
	if !usernamePattern.MatchString(params.Username) {
		return apperrors.Invalid("username", "用户名应为3-150位字母、数字或_.@+-")
	}
	if !emailPattern.MatchString(params.Email) {
		return apperrors.Invalid("email", "邮箱格式不正确")
	}
	if err := validatePasswordStrength(params.Password); err != nil {
		return err
	}
	if utf8.RuneCountInString(params.FirstName) > 150 {
		return apperrors.Invalid("first_name", "名字不能超过150个字符")
	}
	if utf8.RuneCountInString(params.LastName) > 150 {
		return apperrors.Invalid("last_name", "姓氏不能超过150个字符")
	}
	return nil
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}

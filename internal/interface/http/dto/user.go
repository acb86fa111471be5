package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150" example:"alice"`
	Email     string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password  string `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	FirstName string `json:"first_name" binding:"max=150" example:"Alice"`
	LastName  string `json:"last_name" binding:"max=150" example:"Smith"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest 刷新Access Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

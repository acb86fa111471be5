package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型，0表示成功
// 2. HTTP状态码由AppError.HTTPStatus()推导（400/401/403/404/409/429/500）
// 3. Reason是机器可读的原因码，Errors是字段级错误详情
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Reason  string            `json:"reason,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

// Success 成功响应（200）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// NoContent 无响应体（204）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	detail, err := bookService.GetBook(ctx, id)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	// 内部错误记录详细原因，客户端只看到Message
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
	}
	_ = c.Error(err)

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Reason:  appErr.Reason,
		Errors:  appErr.Fields,
	})
}

// ValidationError 参数绑定失败响应（400）
// 将validator.ValidationErrors、JSON语法错误、类型错误转换为字段级错误
func ValidationError(c *gin.Context, err error) {
	Error(c, BindError(err))
}

// BindError 把ShouldBind返回的错误转换为AppError
func BindError(err error) *apperrors.AppError {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)

	switch {
	case errors.As(err, &validationErrs):
		appErr := apperrors.ErrInvalidParams
		for _, fe := range validationErrs {
			appErr = appErr.WithField(fieldName(fe), fieldMessage(fe))
		}
		return appErr
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		return apperrors.ErrInvalidParams.WithField(field, fmt.Sprintf("类型错误，应为%s", typeErr.Type.String()))
	case errors.As(err, &syntaxErr):
		return apperrors.ErrBindError.WithField("non_field_errors", "JSON格式错误")
	default:
		return apperrors.ErrBindError.WithField("non_field_errors", err.Error())
	}
}

// fieldName 优先使用注册的tag名（json/form），去掉顶层结构体前缀
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段不能为空"
	case "max":
		return fmt.Sprintf("长度不能超过%s", fe.Param())
	case "min":
		return fmt.Sprintf("长度不能少于%s", fe.Param())
	case "gte":
		return fmt.Sprintf("不能小于%s", fe.Param())
	case "lte":
		return fmt.Sprintf("不能大于%s", fe.Param())
	case "oneof":
		return fmt.Sprintf("必须是以下之一：%s", fe.Param())
	case "email":
		return "邮箱格式不正确"
	case "decimal2":
		return "必须是最多两位小数的非负数"
	case "ordering":
		return "仅支持price、-price、author、-author"
	default:
		return fmt.Sprintf("校验失败（%s）", fe.Tag())
	}
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{"无权限", apperrors.ErrForbidden, http.StatusForbidden, apperrors.ReasonPermissionDenied},
		{"不存在", apperrors.ErrUserNotFound, http.StatusNotFound, ""},
		{"未登录", apperrors.ErrUnauthorized, http.StatusUnauthorized, ""},
		{"参数错误", apperrors.Invalid("price", "bad"), http.StatusBadRequest, ""},
		{"普通错误", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.NotZero(t, resp.Code)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, apperrors.Wrap(errors.New("dial tcp: connection refused"), "查询图书失败"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, "查询图书失败", decode(t, w).Message)
}

func TestSuccessVariants(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Created(c, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, decode(t, w).Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

type bookRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Price string `json:"price" validate:"required"`
}

func TestBindError_ValidationErrors(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(bookRequest{Name: strings.Repeat("x", 256)})
	appErr := BindError(err)

	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
	assert.Equal(t, "长度不能超过255", appErr.Fields["name"])
	assert.Equal(t, "该字段不能为空", appErr.Fields["price"])
	assert.True(t, errors.Is(appErr, apperrors.ErrInvalidParams))
}

func TestBindError_JSONErrors(t *testing.T) {
	var req struct {
		Rate int `json:"rate"`
	}

	err := json.Unmarshal([]byte(`{"rate":"five"}`), &req)
	appErr := BindError(err)
	assert.Contains(t, appErr.Fields, "rate")
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())

	err = json.Unmarshal([]byte(`{"rate":`), &req)
	appErr = BindError(err)
	assert.Contains(t, appErr.Fields, "non_field_errors")
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())
}

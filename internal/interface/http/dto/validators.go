package dto

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

var registerOnce sync.Once

// RegisterValidators 在gin的默认校验器上注册自定义规则
// 1. 字段名使用json/form tag，错误详情里的key与请求字段一致
// 2. decimal2：最多两位小数的价格
// 3. ordering：图书列表允许的排序值
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(tagName)
		_ = v.RegisterValidation("decimal2", validateDecimal2)
		_ = v.RegisterValidation("ordering", validateOrdering)
	})
}

func tagName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validateDecimal2(fl validator.FieldLevel) bool {
	_, err := book.ParsePrice(fl.Field().String())
	return err == nil
}

func validateOrdering(fl validator.FieldLevel) bool {
	_, err := book.ParseOrdering(fl.Field().String())
	return err == nil
}

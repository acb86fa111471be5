package book

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNameRequired 书名必填
	ErrNameRequired = apperrors.Invalid("name", "书名不能为空")

	// ErrNameTooLong 书名过长
	ErrNameTooLong = apperrors.Invalid("name", "书名不能超过255个字符")

	// ErrAuthorTooLong 作者名过长
	ErrAuthorTooLong = apperrors.Invalid("author", "作者不能超过255个字符")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.Invalid("price", "价格必须是0到99999.99之间的数字")

	// ErrPriceScale 价格小数位过多
	ErrPriceScale = apperrors.Invalid("price", "价格最多保留两位小数")

	// ErrInvalidOrdering 不支持的排序字段
	ErrInvalidOrdering = apperrors.Invalid("ordering", "排序字段只能是price、-price、author、-author")

	// ErrForbidden 无权操作此图书
	ErrForbidden = apperrors.ErrForbidden
)

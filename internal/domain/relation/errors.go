package relation

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

var (
	// ErrRelationNotFound 关系不存在
	ErrRelationNotFound = apperrors.New(apperrors.ErrCodeNotFound, "关系不存在")

	// ErrInvalidRate 评分超出范围
	ErrInvalidRate = apperrors.Invalid("rate", "评分必须是1到5之间的整数")

	// ErrConflict (user, book)唯一索引冲突,仅在服务内部用于重试
	ErrConflict = apperrors.New(apperrors.ErrCodeDuplicateEntry, "关系已存在")
)

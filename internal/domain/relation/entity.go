package relation

import (
	"time"
)

// Rate 评分(1-5)
type Rate int

const (
	RateOk         Rate = 1
	RateFine       Rate = 2
	RateGood       Rate = 3
	RateAmazing    Rate = 4
	RateIncredible Rate = 5

	// DefaultRate 新建关系时的默认评分
	DefaultRate = RateOk
)

var rateLabels = map[Rate]string{
	RateOk:         "Ok",
	RateFine:       "Fine",
	RateGood:       "Good",
	RateAmazing:    "Amazing",
	RateIncredible: "Incredible",
}

// Valid 是否在1-5之间
func (r Rate) Valid() bool {
	_, ok := rateLabels[r]
	return ok
}

// Label 评分文案
func (r Rate) Label() string {
	return rateLabels[r]
}

// Relation 用户与图书的关系(点赞、收藏、评分)
// 每个(UserID, BookID)最多一条,由数据库唯一索引保证
type Relation struct {
	ID         uint
	UserID     uint
	BookID     uint
	Like       bool
	InBookmark bool
	Rate       Rate
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New 创建默认关系
func New(userID, bookID uint) *Relation {
	now := time.Now()
	return &Relation{
		UserID:    userID,
		BookID:    bookID,
		Rate:      DefaultRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Fields 可修改字段,nil表示不修改
type Fields struct {
	Like       *bool
	InBookmark *bool
	Rate       *int
}

// Validate 校验字段取值
func (f Fields) Validate() error {
	if f.Rate != nil && !Rate(*f.Rate).Valid() {
		return ErrInvalidRate
	}
	return nil
}

// Apply 只覆盖提供的字段
func (r *Relation) Apply(f Fields) {
	if f.Like != nil {
		r.Like = *f.Like
	}
	if f.InBookmark != nil {
		r.InBookmark = *f.InBookmark
	}
	if f.Rate != nil {
		r.Rate = Rate(*f.Rate)
	}
	r.UpdatedAt = time.Now()
}

package dto

import "encoding/json"

// ListBooksQuery 图书列表查询参数
// 说明:ordering仅支持price、-price、author、-author,空为默认(ID升序)
type ListBooksQuery struct {
	Search   string `form:"search" binding:"max=255" example:"go"`
	Ordering string `form:"ordering" binding:"omitempty,ordering" example:"-price"`
}

// Decimal 十进制数,JSON中既可以是数字(10.5)也可以是字符串("10.50")
// 只保留原始文本,不经过float64;格式校验由decimal2规则或领域层完成
type Decimal string

// UnmarshalJSON 接受数字字面量或字符串
func (d *Decimal) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Decimal(n)
	return nil
}

// CreateBookRequest 创建图书请求
type CreateBookRequest struct {
	Name   string  `json:"name" binding:"required,max=255" example:"Go语言实战"`
	Price  Decimal `json:"price" binding:"required,decimal2" swaggertype:"string" example:"59.00"`
	Author string  `json:"author" binding:"max=255" example:"威廉·肯尼迪"`
}

// UpdateBookRequest 更新图书请求(PUT/PATCH共用)
// 不使用binding校验:更新的检查顺序是 图书不存在 → 无权限 → 参数错误,
// 字段校验交给领域层在权限检查之后完成
type UpdateBookRequest struct {
	Name   *string  `json:"name" example:"Go语言实战(第2版)"`
	Price  *Decimal `json:"price" swaggertype:"string" example:"69.00"`
	Author *string  `json:"author" example:"威廉·肯尼迪"`
}

// PriceString nil安全地取出价格字符串
func (r UpdateBookRequest) PriceString() *string {
	if r.Price == nil {
		return nil
	}
	s := string(*r.Price)
	return &s
}

// UpsertRelationRequest 设置点赞/收藏/评分,未提供的字段保持不变
type UpsertRelationRequest struct {
	Like       *bool `json:"like" example:"true"`
	InBookmark *bool `json:"in_bookmark" example:"false"`
	Rate       *int  `json:"rate" example:"5"`
}

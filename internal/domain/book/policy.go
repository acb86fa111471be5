package book

// Actor 当前操作者
// 由接口层从认证信息中构造,显式传入每个写操作
type Actor struct {
	UserID  uint
	IsStaff bool
}

// CanModify 授权策略:管理员或图书所有者可以修改/删除图书
func CanModify(actor Actor, b *Book) bool {
	if actor.IsStaff {
		return true
	}
	return actor.UserID != 0 && b.IsOwnedBy(actor.UserID)
}

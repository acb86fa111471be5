package book

// Aggregate 单本图书在关系表上的聚合值
// 由Repository一次分组查询得到原始的SUM/COUNT，评分的舍入在领域层完成，
// 保证MySQL、PostgreSQL、SQLite下结果一致
type Aggregate struct {
	BookID        uint
	LikeCount     int64 // like=true 的关系数
	RateSum       int64 // 所有关系的 rate 之和
	RelationCount int64 // 关系总数（每个用户最多一条）
}

// Rating 平均评分，四舍五入（half-up）到两位小数
// 没有任何关系时返回nil
func (a Aggregate) Rating() *Rating {
	r, ok := AverageRating(a.RateSum, a.RelationCount)
	if !ok {
		return nil
	}
	return &r
}

// AverageRating 用整数运算计算 sum/count 的两位小数均值（half-up）
// 例：5,5,4 → 14/3 = 4.666… → 467
func AverageRating(sum, count int64) (Rating, bool) {
	if count <= 0 {
		return 0, false
	}
	// round(sum*100/count) = floor((200*sum + count) / (2*count))，sum>=0
	return Rating((200*sum + count) / (2 * count)), true
}

// Detail 图书 + 聚合值 + 读者，供展示层使用
type Detail struct {
	Book      *Book
	Aggregate Aggregate
	OwnerName string
	Readers   []Reader
}

// Reader 与图书存在关系的用户
type Reader struct {
	UserID    uint
	FirstName string
	LastName  string
}

// AnnotatedLike 点赞数
func (d *Detail) AnnotatedLike() int64 {
	return d.Aggregate.LikeCount
}

// Rating 读时聚合的平均评分（权威值）
func (d *Detail) Rating() *Rating {
	return d.Aggregate.Rating()
}

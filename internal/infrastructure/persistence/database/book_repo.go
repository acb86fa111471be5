package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 聚合只查询原始SUM/COUNT,评分舍入交给领域层,保证各方言结果一致
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Name:    b.Name,
		Price:   int64(b.Price),
		Author:  b.Author,
		OwnerID: b.OwnerID,
	}

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		// owner_id是唯一的外键:Token有效但账号已注销
		if isForeignKeyError(err) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := conn(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新可编辑字段
// 学习要点:使用map更新,零值(如空作者)也会写入;updated_at由GORM自动维护
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := &BookModel{ID: b.ID}
	err := conn(ctx, r.db).Model(model).Updates(map[string]interface{}{
		"name":   b.Name,
		"price":  int64(b.Price),
		"author": b.Author,
	}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除图书(硬删除)
// 先删除该图书的所有关系,再删除图书;context中没有事务时自行开启
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&RelationModel{}).Error; err != nil {
			return apperrors.Wrap(err, "删除图书关系失败")
		}

		result := tx.Delete(&BookModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}
		return nil
	})
}

// List 查询图书列表
// 1. search:书名或作者包含关键词(不区分大小写)
// 2. ordering:price/author升降序,id升序作为稳定的次排序
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, error) {
	query := conn(ctx, r.db).Model(&BookModel{})

	if params.Search != "" {
		pattern := containsPattern(params.Search)
		query = query.Where(containsCondition(query.Dialector.Name(), "name", "author"), pattern, pattern)
	}

	switch params.Ordering.Field {
	case book.OrderByPrice, book.OrderByAuthor:
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(params.Ordering.Field)},
			Desc:   params.Ordering.Desc,
		})
	}
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	var models []BookModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// aggregateRow 分组统计结果
type aggregateRow struct {
	BookID        uint
	LikeCount     int64
	RateSum       int64
	RelationCount int64
}

// Aggregates 按图书分组统计点赞数、评分和、关系数
// 教学要点:一次GROUP BY查询覆盖整页图书,避免N+1
func (r *bookRepository) Aggregates(ctx context.Context, bookIDs []uint) (map[uint]book.Aggregate, error) {
	result := make(map[uint]book.Aggregate, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	rows, err := aggregateRelations(conn(ctx, r.db), bookIDs)
	if err != nil {
		return nil, apperrors.Wrap(err, "统计图书关系失败")
	}
	for _, row := range rows {
		result[row.BookID] = book.Aggregate{
			BookID:        row.BookID,
			LikeCount:     row.LikeCount,
			RateSum:       row.RateSum,
			RelationCount: row.RelationCount,
		}
	}
	return result, nil
}

func aggregateRelations(db *gorm.DB, bookIDs []uint) ([]aggregateRow, error) {
	var rows []aggregateRow
	err := db.Model(&RelationModel{}).
		Select("book_id, " +
			"SUM(CASE WHEN liked THEN 1 ELSE 0 END) AS like_count, " +
			"SUM(rate) AS rate_sum, " +
			"COUNT(*) AS relation_count").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error
	return rows, err
}

// readerRow 读者查询结果
type readerRow struct {
	BookID    uint
	UserID    uint
	FirstName string
	LastName  string
}

// Readers 查询与图书存在关系的用户,按关系创建顺序排列
func (r *bookRepository) Readers(ctx context.Context, bookIDs []uint) (map[uint][]book.Reader, error) {
	result := make(map[uint][]book.Reader, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	var rows []readerRow
	err := conn(ctx, r.db).Table("user_book_relations AS r").
		Select("r.book_id, r.user_id, u.first_name, u.last_name").
		Joins("JOIN users AS u ON u.id = r.user_id").
		Where("r.book_id IN ?", bookIDs).
		Order("r.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书读者失败")
	}

	for _, row := range rows {
		result[row.BookID] = append(result[row.BookID], book.Reader{
			UserID:    row.UserID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		})
	}
	return result, nil
}

// OwnerNames 查询所有者用户名
func (r *bookRepository) OwnerNames(ctx context.Context, ownerIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	var users []UserModel
	err := conn(ctx, r.db).Select("id", "username").Where("id IN ?", ownerIDs).Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书所有者失败")
	}
	for _, u := range users {
		result[u.ID] = u.Username
	}
	return result, nil
}

// RefreshCachedRating 重新计算books.rating缓存列
func (r *bookRepository) RefreshCachedRating(ctx context.Context, bookID uint) error {
	if err := refreshCachedRatings(conn(ctx, r.db), []uint{bookID}); err != nil {
		return apperrors.Wrap(err, "更新评分缓存失败")
	}
	return nil
}

// refreshCachedRatings 批量重算评分缓存,没有关系的图书置NULL
func refreshCachedRatings(db *gorm.DB, bookIDs []uint) error {
	if len(bookIDs) == 0 {
		return nil
	}

	rows, err := aggregateRelations(db, bookIDs)
	if err != nil {
		return err
	}
	byBook := make(map[uint]aggregateRow, len(rows))
	for _, row := range rows {
		byBook[row.BookID] = row
	}

	for _, id := range bookIDs {
		var rating *int64
		if row, ok := byBook[id]; ok {
			if avg, ok := book.AverageRating(row.RateSum, row.RelationCount); ok {
				v := int64(avg)
				rating = &v
			}
		}
		// UpdateColumn不修改updated_at
		if err := db.Model(&BookModel{}).Where("id = ?", id).UpdateColumn("rating", rating).Error; err != nil {
			return err
		}
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:        model.ID,
		Name:      model.Name,
		Price:     book.Price(model.Price),
		Author:    model.Author,
		OwnerID:   model.OwnerID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Rating != nil {
		rating := book.Rating(*model.Rating)
		b.CachedRating = &rating
	}
	return b
}

package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/relation"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshelf/internal/testutil"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func names(books []*book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Name
	}
	return out
}

func TestBookRepository_List(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	owner := f.User("owner", "", "")
	f.Book("Test book 1", "10.00", "Author 1", owner)
	f.Book("Test book 2", "20.00", "Author 2", owner)
	f.Book("Test book 3", "15.00", "Author 3", owner)
	f.Book("Go 100%_done", "5.00", "someone", owner)

	repo := f.Books

	t.Run("默认按ID升序", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test book 1", "Test book 2", "Test book 3", "Go 100%_done"}, names(books))
	})

	t.Run("按作者搜索不区分大小写", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{Search: "author 1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test book 1"}, names(books))
	})

	t.Run("按书名搜索", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{Search: "BOOK 3"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test book 3"}, names(books))
	})

	t.Run("通配符按字面匹配", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{Search: "%_"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Go 100%_done"}, names(books))

		books, err = repo.List(ctx, book.ListParams{Search: "_"})
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("价格升序", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{Ordering: book.Ordering{Field: book.OrderByPrice}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Go 100%_done", "Test book 1", "Test book 3", "Test book 2"}, names(books))
	})

	t.Run("价格降序", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{Ordering: book.Ordering{Field: book.OrderByPrice, Desc: true}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test book 2", "Test book 3", "Test book 1", "Go 100%_done"}, names(books))
	})

	t.Run("作者升序", func(t *testing.T) {
		books, err := repo.List(ctx, book.ListParams{
			Search:   "test",
			Ordering: book.Ordering{Field: book.OrderByAuthor},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Test book 1", "Test book 2", "Test book 3"}, names(books))
	})
}

func TestBookRepository_ListSearchNonASCII(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	owner := f.User("owner", "", "")
	f.Book("Élan vital", "12.00", "Über", owner)
	f.Book("Plain", "1.00", "nobody", owner)

	for _, keyword := range []string{"Élan", "élan", "ÉLAN", "Über", "über", "ÜBER", "vital"} {
		books, err := f.Books.List(ctx, book.ListParams{Search: keyword})
		require.NoError(t, err, keyword)
		assert.Equal(t, []string{"Élan vital"}, names(books), keyword)
	}
}

func TestBookRepository_ListTieBreakByID(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)

	f.Book("A", "10.00", "", nil)
	f.Book("B", "10.00", "", nil)
	f.Book("C", "10.00", "", nil)

	books, err := f.Books.List(context.Background(), book.ListParams{
		Ordering: book.Ordering{Field: book.OrderByPrice, Desc: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names(books))
}

func TestBookRepository_Aggregates(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	u1 := f.User("u1", "Ann", "Lee")
	u2 := f.User("u2", "Bob", "Ray")
	u3 := f.User("u3", "Cid", "Moe")
	rated := f.Book("Rated", "1.00", "", u1)
	empty := f.Book("Empty", "1.00", "", u1)

	f.Relation(u1, rated, true, 5)
	f.Relation(u2, rated, true, 5)
	f.Relation(u3, rated, false, 4)

	aggs, err := f.Books.Aggregates(ctx, []uint{rated.ID, empty.ID})
	require.NoError(t, err)

	agg := aggs[rated.ID]
	assert.Equal(t, int64(2), agg.LikeCount)
	assert.Equal(t, int64(14), agg.RateSum)
	assert.Equal(t, int64(3), agg.RelationCount)
	require.NotNil(t, agg.Rating())
	assert.Equal(t, "4.67", agg.Rating().String())

	_, ok := aggs[empty.ID]
	assert.False(t, ok)

	readers, err := f.Books.Readers(ctx, []uint{rated.ID, empty.ID})
	require.NoError(t, err)
	require.Len(t, readers[rated.ID], 3)
	assert.Equal(t, book.Reader{UserID: u1.ID, FirstName: "Ann", LastName: "Lee"}, readers[rated.ID][0])
	assert.Empty(t, readers[empty.ID])

	owners, err := f.Books.OwnerNames(ctx, []uint{u1.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{u1.ID: "u1"}, owners)
}

func TestBookRepository_RefreshCachedRating(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	u1 := f.User("u1", "", "")
	u2 := f.User("u2", "", "")
	b := f.Book("Cached", "1.00", "", u1)

	require.NoError(t, f.Books.RefreshCachedRating(ctx, b.ID))
	got, err := f.Books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CachedRating)

	f.Relation(u1, b, false, 2)
	f.Relation(u2, b, false, 3)
	require.NoError(t, f.Books.RefreshCachedRating(ctx, b.ID))

	got, err = f.Books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CachedRating)
	assert.Equal(t, "2.50", got.CachedRating.String())
}

func TestBookRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	u := f.User("u", "", "")
	b := f.Book("Old", "1.00", "Someone", u)
	f.Relation(u, b, true, 3)

	require.NoError(t, b.Replace("New", 250, ""))
	require.NoError(t, f.Books.Update(ctx, b))

	got, err := f.Books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "2.50", got.Price.String())
	assert.Equal(t, "", got.Author)

	require.NoError(t, f.Books.Delete(ctx, b.ID))

	_, err = f.Books.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	_, err = f.Relations.Find(ctx, u.ID, b.ID)
	assert.ErrorIs(t, err, relation.ErrRelationNotFound)

	assert.ErrorIs(t, f.Books.Delete(ctx, b.ID), book.ErrBookNotFound)
}

func TestRelationRepository_CreateConflict(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	u := f.User("u", "", "")
	b := f.Book("B", "1.00", "", u)
	f.Relation(u, b, false, 1)

	err := f.Relations.Create(ctx, relation.New(u.ID, b.ID))
	assert.ErrorIs(t, err, relation.ErrConflict)
}

func TestRelationRepository_Update(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	ctx := context.Background()

	u := f.User("u", "", "")
	b := f.Book("B", "1.00", "", u)
	r := f.Relation(u, b, true, 1)

	inBookmark := true
	rate := 5
	r.Apply(relation.Fields{InBookmark: &inBookmark, Rate: &rate})
	require.NoError(t, f.Relations.Update(ctx, r))

	got, err := f.Relations.Find(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Like)
	assert.True(t, got.InBookmark)
	assert.Equal(t, relation.RateIncredible, got.Rate)
}

func TestTxManager_NestedRollback(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	tx := database.NewTxManager(db)
	ctx := context.Background()

	u := f.User("u", "", "")
	b := f.Book("B", "1.00", "", u)
	f.Relation(u, b, false, 1)

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		// 内层失败只回滚到savepoint
		inner := tx.Transaction(ctx, func(ctx context.Context) error {
			return f.Relations.Create(ctx, relation.New(u.ID, b.ID))
		})
		assert.ErrorIs(t, inner, relation.ErrConflict)

		existing, err := f.Relations.Find(ctx, u.ID, b.ID)
		if err != nil {
			return err
		}
		like := true
		existing.Apply(relation.Fields{Like: &like})
		return f.Relations.Update(ctx, existing)
	})
	require.NoError(t, err)

	got, err := f.Relations.Find(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Like)
}

func TestTxManager_Rollback(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	tx := database.NewTxManager(db)
	ctx := context.Background()

	u := f.User("u", "", "")
	var created *book.Book
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := book.NewBook("Rolled back", 100, "", u.ID)
		if err != nil {
			return err
		}
		if err := f.Books.Create(ctx, b); err != nil {
			return err
		}
		created = b
		return apperrors.ErrInternal
	})
	require.ErrorIs(t, err, apperrors.ErrInternal)
	require.NotNil(t, created)

	_, err = f.Books.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

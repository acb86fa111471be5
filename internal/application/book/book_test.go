package book_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshelf/internal/testutil"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// recordingPublisher 记录发布的事件，err非nil时发布失败
type recordingPublisher struct {
	keys   []string
	events []interface{}
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, data interface{}) error {
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, data)
	return p.err
}

func TestToBookResponse(t *testing.T) {
	b := &book.Book{ID: 7, Name: "Go", Price: 1050, Author: "Rob"}

	resp := appbook.ToBookResponse(&book.Detail{
		Book:      b,
		Aggregate: book.Aggregate{BookID: 7, LikeCount: 2, RateSum: 14, RelationCount: 3},
		OwnerName: "alice",
		Readers: []book.Reader{
			{UserID: 1, FirstName: "Ann", LastName: "Lee"},
			{UserID: 2, FirstName: "Bob", LastName: "Ray"},
		},
	})

	assert.Equal(t, "10.50", resp.Price)
	assert.Equal(t, int64(2), resp.AnnotatedLike)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, "4.67", *resp.Rating)
	assert.Equal(t, "alice", resp.OwnerName)
	assert.Equal(t, []appbook.ReaderResponse{{FirstName: "Ann", LastName: "Lee"}, {FirstName: "Bob", LastName: "Ray"}}, resp.Readers)

	empty := appbook.ToBookResponse(&book.Detail{Book: b})
	assert.Nil(t, empty.Rating)
	assert.NotNil(t, empty.Readers)
	assert.Empty(t, empty.Readers)

	assert.NotNil(t, appbook.ToBookResponses(nil))
}

func newService(t *testing.T) (book.Service, *testutil.Fixture) {
	db := testutil.NewDB(t)
	f := testutil.NewFixture(t, db)
	return book.NewService(f.Books, database.NewTxManager(db)), f
}

func TestCreateBook_PublishFailureKeepsWrite(t *testing.T) {
	svc, f := newService(t)
	owner := f.User("owner", "", "")
	pub := &recordingPublisher{err: errors.New("broker down")}
	ctx := context.Background()

	resp, err := appbook.NewCreateBookUseCase(svc, pub).Execute(ctx, appbook.CreateBookRequest{
		Actor: book.Actor{UserID: owner.ID},
		Name:  "Durable",
		Price: "12.5",
	})
	require.NoError(t, err)
	assert.Equal(t, "12.50", resp.Price)
	assert.Equal(t, "owner", resp.OwnerName)

	require.Equal(t, []string{appbook.EventBookCreated}, pub.keys)
	assert.Equal(t, appbook.BookEvent{
		BookID:  resp.ID,
		Name:    "Durable",
		Price:   "12.50",
		ActorID: owner.ID,
	}, pub.events[0])

	_, err = f.Books.FindByID(ctx, resp.ID)
	assert.NoError(t, err)
}

func TestUpdateAndDelete_NoEventOnFailure(t *testing.T) {
	svc, f := newService(t)
	owner := f.User("owner", "", "")
	other := f.User("other", "", "")
	b := f.Book("Mine", "1.00", "", owner)
	pub := &recordingPublisher{}
	ctx := context.Background()

	name := "Theirs"
	_, err := appbook.NewUpdateBookUseCase(svc, pub).Execute(ctx, appbook.UpdateBookRequest{
		Actor:   book.Actor{UserID: other.ID},
		ID:      b.ID,
		Partial: true,
		Name:    &name,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = appbook.NewDeleteBookUseCase(svc, pub).Execute(ctx, book.Actor{UserID: other.ID}, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, pub.keys)

	require.NoError(t, appbook.NewDeleteBookUseCase(svc, pub).Execute(ctx, book.Actor{IsStaff: true}, b.ID))
	assert.Equal(t, []string{appbook.EventBookDeleted}, pub.keys)
	assert.Equal(t, appbook.BookEvent{BookID: b.ID}, pub.events[0])
}

func TestListBooks(t *testing.T) {
	svc, f := newService(t)
	owner := f.User("owner", "Ann", "Lee")
	b := f.Book("Rated", "3.00", "Someone", owner)
	f.Book("Plain", "1.00", "", owner)
	f.Relation(owner, b, true, 4)
	ctx := context.Background()

	list, err := appbook.NewListBooksUseCase(svc).Execute(ctx, appbook.ListBooksRequest{Ordering: "price"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Plain", list[0].Name)
	assert.Nil(t, list[0].Rating)
	assert.Equal(t, "Rated", list[1].Name)
	require.NotNil(t, list[1].Rating)
	assert.Equal(t, "4.00", *list[1].Rating)
	assert.Equal(t, []appbook.ReaderResponse{{FirstName: "Ann", LastName: "Lee"}}, list[1].Readers)

	_, err = appbook.NewGetBookUseCase(svc).Execute(ctx, 9999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

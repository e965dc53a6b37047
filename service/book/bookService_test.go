package booksvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bookrent/model"
	booksvc "bookrent/service/book"
	"bookrent/util/database"
	"bookrent/util/errcode"
)

type repoMock struct {
	createFn     func(ctx context.Context, b *booksvc.Book) error
	listFn       func(ctx context.Context, offset, limit int) ([]booksvc.Book, error)
	detailFn     func(ctx context.Context, id int64) (*booksvc.Book, error)
	byISBNFn     func(ctx context.Context, isbn string) (*booksvc.Book, error)
	lockFn       func(ctx context.Context, id int64) (*booksvc.Book, error)
	isbnTakenFn  func(ctx context.Context, isbn string, exceptID int64) (bool, error)
	updateFn     func(ctx context.Context, b *booksvc.Book) error
	openFn       func(ctx context.Context, bookID int64) (bool, error)
	deactivateFn func(ctx context.Context, id int64) error
}

func (m *repoMock) Create(ctx context.Context, b *booksvc.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) List(ctx context.Context, offset, limit int) ([]booksvc.Book, error) {
	return m.listFn(ctx, offset, limit)
}
func (m *repoMock) Detail(ctx context.Context, id int64) (*booksvc.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) ByISBN(ctx context.Context, isbn string) (*booksvc.Book, error) {
	return m.byISBNFn(ctx, isbn)
}
func (m *repoMock) LockByID(ctx context.Context, _ database.Querier, id int64) (*booksvc.Book, error) {
	return m.lockFn(ctx, id)
}
func (m *repoMock) ISBNTaken(ctx context.Context, _ database.Querier, isbn string, exceptID int64) (bool, error) {
	return m.isbnTakenFn(ctx, isbn, exceptID)
}
func (m *repoMock) Update(ctx context.Context, _ database.Querier, b *booksvc.Book) error {
	return m.updateFn(ctx, b)
}
func (m *repoMock) HasOpenRentals(ctx context.Context, _ database.Querier, bookID int64) (bool, error) {
	return m.openFn(ctx, bookID)
}
func (m *repoMock) Deactivate(ctx context.Context, _ database.Querier, id int64) error {
	return m.deactivateFn(ctx, id)
}

// passTx runs fn without a real transaction.
type passTx struct{ calls int }

func (p *passTx) WithTx(_ context.Context, fn func(q database.Querier) error) error {
	p.calls++
	return fn(nil)
}

func noISBN(context.Context, string) (*booksvc.Book, error) { return nil, pgx.ErrNoRows }

func ptr[T any](v T) *T { return &v }

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&passTx{}, &repoMock{})
	ctx := context.Background()

	cases := []model.CreateBookReq{
		{Author: "a", ISBN: "1"},
		{Title: "t", ISBN: "1"},
		{Title: "t", Author: "a", ISBN: "  "},
		{Title: "t", Author: "a", ISBN: "1", Price: ptr(decimal.NewFromInt(-1))},
		{Title: "t", Author: "a", ISBN: "1", Price: ptr(decimal.Zero), TotalCopies: ptr(-2)},
		{Title: "t", Author: "a", ISBN: "1"},
	}
	for _, req := range cases {
		_, err := s.Create(ctx, req)
		require.Equal(t, booksvc.ErrBadInput, errcode.Of(err), "%+v", req)
	}
}

func TestCreate_Success(t *testing.T) {
	var saved *booksvc.Book
	m := &repoMock{
		byISBNFn: noISBN,
		createFn: func(_ context.Context, b *booksvc.Book) error {
			b.ID = 42
			saved = b
			return nil
		},
	}
	s := booksvc.New(&passTx{}, m)

	b, err := s.Create(context.Background(), model.CreateBookReq{
		Title:       " Clean Code ",
		Author:      "Robert Martin",
		ISBN:        "9780132350884",
		TotalCopies: ptr(4),
		Price:       ptr(decimal.RequireFromString("18.505")),
	})
	require.NoError(t, err)
	require.Same(t, saved, b)
	require.EqualValues(t, 42, b.ID)
	require.Equal(t, "Clean Code", b.Title)
	require.Equal(t, 4, b.TotalCopies)
	require.Equal(t, 4, b.AvailableCopies)
	require.True(t, b.IsActive)
	require.Equal(t, "18.51", b.Price.StringFixed(2))
}

func TestCreate_DefaultsOneCopy(t *testing.T) {
	m := &repoMock{
		byISBNFn: noISBN,
		createFn: func(context.Context, *booksvc.Book) error { return nil },
	}
	b, err := booksvc.New(&passTx{}, m).Create(context.Background(), model.CreateBookReq{Title: "t", Author: "a", ISBN: "1", Price: ptr(decimal.NewFromInt(5))})
	require.NoError(t, err)
	require.Equal(t, 1, b.TotalCopies)
	require.Equal(t, 1, b.AvailableCopies)
}

func TestCreate_DuplicateISBN(t *testing.T) {
	req := model.CreateBookReq{Title: "t", Author: "a", ISBN: "1", Price: ptr(decimal.NewFromInt(5))}

	existing := &repoMock{
		byISBNFn: func(context.Context, string) (*booksvc.Book, error) { return &booksvc.Book{ID: 1}, nil },
	}
	_, err := booksvc.New(&passTx{}, existing).Create(context.Background(), req)
	require.Equal(t, booksvc.ErrISBNTaken, errcode.Of(err))

	raced := &repoMock{
		byISBNFn: noISBN,
		createFn: func(context.Context, *booksvc.Book) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_isbn_key"}
		},
	}
	_, err = booksvc.New(&passTx{}, raced).Create(context.Background(), req)
	require.Equal(t, booksvc.ErrISBNTaken, errcode.Of(err))
}

func TestDetail(t *testing.T) {
	m := &repoMock{
		detailFn: func(_ context.Context, id int64) (*booksvc.Book, error) {
			if id == 7 {
				return &booksvc.Book{ID: 7}, nil
			}
			return nil, pgx.ErrNoRows
		},
	}
	s := booksvc.New(&passTx{}, m)

	b, err := s.Detail(context.Background(), 7)
	require.NoError(t, err)
	require.EqualValues(t, 7, b.ID)

	_, err = s.Detail(context.Background(), 8)
	require.Equal(t, booksvc.ErrNotFound, errcode.Of(err))
}

func TestList_PassesPaging(t *testing.T) {
	m := &repoMock{
		listFn: func(_ context.Context, offset, limit int) ([]booksvc.Book, error) {
			require.Equal(t, 10, offset)
			require.Equal(t, 5, limit)
			return []booksvc.Book{{ID: 1}}, nil
		},
	}
	out, err := booksvc.New(&passTx{}, m).List(context.Background(), 10, 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func lockReturning(b booksvc.Book) func(context.Context, int64) (*booksvc.Book, error) {
	return func(_ context.Context, id int64) (*booksvc.Book, error) {
		if id != b.ID {
			return nil, pgx.ErrNoRows
		}
		cp := b
		return &cp, nil
	}
}

func TestUpdate(t *testing.T) {
	stored := booksvc.Book{ID: 3, Title: "Old", ISBN: "111", TotalCopies: 3, AvailableCopies: 1}

	t.Run("not found", func(t *testing.T) {
		m := &repoMock{lockFn: lockReturning(stored)}
		_, err := booksvc.New(&passTx{}, m).Update(context.Background(), 99, model.BookPatch{Title: ptr("x")})
		require.Equal(t, booksvc.ErrNotFound, errcode.Of(err))
	})

	t.Run("partial fields only", func(t *testing.T) {
		tx := &passTx{}
		m := &repoMock{
			lockFn:   lockReturning(stored),
			updateFn: func(context.Context, *booksvc.Book) error { return nil },
		}
		b, err := booksvc.New(tx, m).Update(context.Background(), 3, model.BookPatch{Title: ptr("New")})
		require.NoError(t, err)
		require.Equal(t, 1, tx.calls)
		require.Equal(t, "New", b.Title)
		require.Equal(t, "111", b.ISBN)
		require.Equal(t, 3, b.TotalCopies)
		require.Equal(t, 1, b.AvailableCopies)
	})

	t.Run("isbn taken by another book", func(t *testing.T) {
		m := &repoMock{
			lockFn: lockReturning(stored),
			isbnTakenFn: func(_ context.Context, isbn string, exceptID int64) (bool, error) {
				require.Equal(t, "222", isbn)
				require.EqualValues(t, 3, exceptID)
				return true, nil
			},
		}
		_, err := booksvc.New(&passTx{}, m).Update(context.Background(), 3, model.BookPatch{ISBN: ptr(" 222 ")})
		require.Equal(t, booksvc.ErrISBNTaken, errcode.Of(err))
	})

	t.Run("copies below zero or above total", func(t *testing.T) {
		m := &repoMock{lockFn: lockReturning(stored)}
		s := booksvc.New(&passTx{}, m)

		_, err := s.Update(context.Background(), 3, model.BookPatch{TotalCopies: ptr(0)})
		require.Equal(t, booksvc.ErrInvalidCopies, errcode.Of(err))

		_, err = s.Update(context.Background(), 3, model.BookPatch{AvailableCopies: ptr(4)})
		require.Equal(t, booksvc.ErrInvalidCopies, errcode.Of(err))
	})

	t.Run("reactivates a soft deleted book", func(t *testing.T) {
		inactive := stored
		inactive.IsActive = false
		m := &repoMock{
			lockFn:   lockReturning(inactive),
			updateFn: func(context.Context, *booksvc.Book) error { return nil },
		}
		b, err := booksvc.New(&passTx{}, m).Update(context.Background(), 3, model.BookPatch{IsActive: ptr(true)})
		require.NoError(t, err)
		require.True(t, b.IsActive)
	})

	t.Run("store error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		m := &repoMock{
			lockFn:   lockReturning(stored),
			updateFn: func(context.Context, *booksvc.Book) error { return boom },
		}
		_, err := booksvc.New(&passTx{}, m).Update(context.Background(), 3, model.BookPatch{Title: ptr("x")})
		require.ErrorIs(t, err, boom)
	})
}

func TestDelete(t *testing.T) {
	stored := booksvc.Book{ID: 5, IsActive: true}

	t.Run("not found", func(t *testing.T) {
		m := &repoMock{lockFn: lockReturning(stored)}
		err := booksvc.New(&passTx{}, m).Delete(context.Background(), 6)
		require.Equal(t, booksvc.ErrNotFound, errcode.Of(err))
	})

	t.Run("open rentals block delete", func(t *testing.T) {
		m := &repoMock{
			lockFn: lockReturning(stored),
			openFn: func(context.Context, int64) (bool, error) { return true, nil },
			deactivateFn: func(context.Context, int64) error {
				t.Fatal("deactivate must not run")
				return nil
			},
		}
		err := booksvc.New(&passTx{}, m).Delete(context.Background(), 5)
		require.Equal(t, booksvc.ErrActiveRentals, errcode.Of(err))
	})

	t.Run("soft delete", func(t *testing.T) {
		var deactivated int64
		m := &repoMock{
			lockFn: lockReturning(stored),
			openFn: func(context.Context, int64) (bool, error) { return false, nil },
			deactivateFn: func(_ context.Context, id int64) error {
				deactivated = id
				return nil
			},
		}
		require.NoError(t, booksvc.New(&passTx{}, m).Delete(context.Background(), 5))
		require.EqualValues(t, 5, deactivated)
	})
}

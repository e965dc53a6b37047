package booksvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bookrent/model"
	"bookrent/util/database"
	"bookrent/util/errcode"
)

const (
	ErrNotFound      errcode.Code = "BOOK_NOT_FOUND"
	ErrISBNTaken     errcode.Code = "ISBN_TAKEN"
	ErrActiveRentals errcode.Code = "ACTIVE_RENTALS_EXIST"
	ErrInvalidCopies errcode.Code = "INVALID_COPIES"
	ErrBadInput      errcode.Code = "BAD_INPUT"
)

type Book = model.Book

type Repo interface {
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context, offset, limit int) ([]Book, error)
	Detail(ctx context.Context, id int64) (*Book, error)
	ByISBN(ctx context.Context, isbn string) (*Book, error)

	LockByID(ctx context.Context, q database.Querier, id int64) (*Book, error)
	ISBNTaken(ctx context.Context, q database.Querier, isbn string, exceptID int64) (bool, error)
	Update(ctx context.Context, q database.Querier, b *Book) error
	HasOpenRentals(ctx context.Context, q database.Querier, bookID int64) (bool, error)
	Deactivate(ctx context.Context, q database.Querier, id int64) error
}

type Service interface {
	Create(ctx context.Context, req model.CreateBookReq) (*Book, error)
	List(ctx context.Context, offset, limit int) ([]Book, error)
	Detail(ctx context.Context, id int64) (*Book, error)
	// Update does not filter on is_active, so a soft-deleted book can be
	// edited or reactivated.
	Update(ctx context.Context, id int64, patch model.BookPatch) (*Book, error)
	// Delete soft-deletes a book that has no open rental.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	tx database.Transactor
	r  Repo
}

func New(tx database.Transactor, r Repo) Service { return &service{tx: tx, r: r} }

func (s *service) Create(ctx context.Context, req model.CreateBookReq) (*Book, error) {
	b := &Book{
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		ISBN:            strings.TrimSpace(req.ISBN),
		Description:     req.Description,
		Category:        req.Category,
		TotalCopies:     1,
		PublicationYear: req.PublicationYear,
		IsActive:        true,
	}
	if req.TotalCopies != nil {
		b.TotalCopies = *req.TotalCopies
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	b.AvailableCopies = b.TotalCopies

	if req.Price == nil {
		return nil, errcode.Newf(ErrBadInput, "price is required")
	}
	b.Price = req.Price.Round(2)

	if b.Title == "" || b.Author == "" || b.ISBN == "" || b.Price.IsNegative() || b.TotalCopies < 0 {
		return nil, errcode.Newf(ErrBadInput, "invalid payload")
	}

	existing, err := s.r.ByISBN(ctx, b.ISBN)
	if err != nil && !database.IsNoRows(err) {
		return nil, fmt.Errorf("lookup isbn: %w", err)
	}
	if existing != nil {
		return nil, errcode.New(ErrISBNTaken)
	}

	if err := s.r.Create(ctx, b); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, errcode.New(ErrISBNTaken)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, offset, limit int) ([]Book, error) {
	return s.r.List(ctx, offset, limit)
}

func (s *service) Detail(ctx context.Context, id int64) (*Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Update(ctx context.Context, id int64, patch model.BookPatch) (*Book, error) {
	var out *Book
	err := s.tx.WithTx(ctx, func(q database.Querier) error {
		b, err := s.r.LockByID(ctx, q, id)
		if err != nil {
			if database.IsNoRows(err) {
				return errcode.New(ErrNotFound)
			}
			return err
		}

		if patch.ISBN != nil {
			isbn := strings.TrimSpace(*patch.ISBN)
			if isbn == "" {
				return errcode.Newf(ErrBadInput, "isbn must not be empty")
			}
			patch.ISBN = &isbn
			taken, err := s.r.ISBNTaken(ctx, q, isbn, id)
			if err != nil {
				return err
			}
			if taken {
				return errcode.New(ErrISBNTaken)
			}
		}
		if patch.Price != nil && patch.Price.LessThan(decimal.Zero) {
			return errcode.Newf(ErrBadInput, "price must not be negative")
		}

		patch.Apply(b)
		if !b.CopiesValid() {
			return errcode.Newf(ErrInvalidCopies, "available_copies must be between 0 and total_copies")
		}

		if err := s.r.Update(ctx, q, b); err != nil {
			if _, ok := database.UniqueViolation(err); ok {
				return errcode.New(ErrISBNTaken)
			}
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(q database.Querier) error {
		// the row lock orders this against a concurrent checkout
		if _, err := s.r.LockByID(ctx, q, id); err != nil {
			if database.IsNoRows(err) {
				return errcode.New(ErrNotFound)
			}
			return err
		}
		open, err := s.r.HasOpenRentals(ctx, q, id)
		if err != nil {
			return err
		}
		if open {
			return errcode.New(ErrActiveRentals)
		}
		return s.r.Deactivate(ctx, q, id)
	})
}

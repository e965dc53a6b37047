package rental

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bookrent/model"
	rrepo "bookrent/repository/rental"
	"bookrent/util/database"
	"bookrent/util/errcode"
	"bookrent/util/metrics"
)

// errors used by controllers

const (
	ErrBookNotFound    errcode.Code = "BOOK_NOT_FOUND"
	ErrUnavailable     errcode.Code = "BOOK_UNAVAILABLE"
	ErrAlreadyRented   errcode.Code = "ALREADY_RENTED"
	ErrNotFound        errcode.Code = "RENTAL_NOT_FOUND"
	ErrAlreadyReturned errcode.Code = "ALREADY_RETURNED"
	ErrUserNotFound    errcode.Code = "USER_NOT_FOUND"
	ErrBadInput        errcode.Code = "BAD_INPUT"
)

var tracer = otel.Tracer("bookrent/service/rental")

// Stock = repository shape
type Stock = rrepo.Stock

type Repo interface {
	LockStock(ctx context.Context, q database.Querier, bookID int64) (*Stock, error)
	TakeCopy(ctx context.Context, q database.Querier, bookID int64) error
	FreeCopy(ctx context.Context, q database.Querier, bookID int64) (bool, error)

	HasOpenRental(ctx context.Context, q database.Querier, userID, bookID int64) (bool, error)
	Insert(ctx context.Context, q database.Querier, r *model.Rental) error
	LockRental(ctx context.Context, q database.Querier, rentalID int64) (*model.Rental, error)
	MarkReturned(ctx context.Context, q database.Querier, r *model.Rental) error

	ByID(ctx context.Context, rentalID int64) (*model.Rental, error)
	List(ctx context.Context, offset, limit int) ([]model.Rental, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Rental, error)
	ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error)
}

// Books resolves the book of a rental for the embedded view.
type Books interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
}

type CheckoutInput struct {
	UserID    int64
	BookID    int64
	DueDate   time.Time
	DailyRate decimal.Decimal
}

type Service interface {
	// Checkout lends one copy of a book to a user.
	Checkout(ctx context.Context, in CheckoutInput) (*model.Rental, error)

	// Return closes an open rental, bills it and puts the copy back.
	Return(ctx context.Context, rentalID int64) (*model.Rental, error)

	Get(ctx context.Context, rentalID int64) (*model.Rental, error)
	GetWithBook(ctx context.Context, rentalID int64) (*model.RentalWithBook, error)
	List(ctx context.Context, offset, limit int) ([]model.Rental, error)
	ListForUser(ctx context.Context, userID int64, offset, limit int) ([]model.Rental, error)

	// ListOverdue lists open rentals past due, labelled overdue. Nothing is
	// written.
	ListOverdue(ctx context.Context) ([]model.Rental, error)
}

// ----- Service implementation -----

type service struct {
	tx    database.Transactor
	r     Repo
	books Books
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*service)

// WithClock sets the time source used for rental, return and overdue dates.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *service) { s.log = log }
}

func New(tx database.Transactor, r Repo, books Books, opts ...Option) Service {
	s := &service{
		tx:    tx,
		r:     r,
		books: books,
		now:   func() time.Time { return time.Now().UTC() },
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Checkout(ctx context.Context, in CheckoutInput) (out *model.Rental, err error) {
	ctx, span := tracer.Start(ctx, "rental.checkout")
	span.SetAttributes(attribute.Int64("user.id", in.UserID), attribute.Int64("book.id", in.BookID))
	defer func() {
		metrics.ObserveCheckout(resultLabel(err))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if in.UserID <= 0 || in.BookID <= 0 || in.DueDate.IsZero() {
		return nil, errcode.Newf(ErrBadInput, "user_id, book_id and due_date are required")
	}
	if in.DailyRate.IsNegative() {
		return nil, errcode.Newf(ErrBadInput, "daily_rate must not be negative")
	}

	rental := &model.Rental{
		UserID:     in.UserID,
		BookID:     in.BookID,
		RentalDate: s.now(),
		DueDate:    in.DueDate.UTC(),
		DailyRate:  in.DailyRate.Round(2),
		LateFee:    decimal.Zero,
		Status:     model.RentalActive,
	}

	err = s.tx.WithTx(ctx, func(q database.Querier) error {
		stock, err := s.r.LockStock(ctx, q, in.BookID)
		if err != nil {
			if database.IsNoRows(err) {
				return errcode.New(ErrBookNotFound)
			}
			return fmt.Errorf("lock book: %w", err)
		}
		if !stock.IsActive {
			return errcode.New(ErrBookNotFound)
		}
		if stock.AvailableCopies <= 0 {
			return errcode.New(ErrUnavailable)
		}

		open, err := s.r.HasOpenRental(ctx, q, in.UserID, in.BookID)
		if err != nil {
			return fmt.Errorf("check open rental: %w", err)
		}
		if open {
			return errcode.New(ErrAlreadyRented)
		}

		if err := s.r.Insert(ctx, q, rental); err != nil {
			return mapInsertErr(err)
		}
		if err := s.r.TakeCopy(ctx, q, in.BookID); err != nil {
			if errors.Is(err, rrepo.ErrNoCopy) {
				return errcode.New(ErrUnavailable)
			}
			return fmt.Errorf("take copy: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "rental checked out",
		"rental_id", rental.ID, "user_id", rental.UserID, "book_id", rental.BookID,
		"due_date", rental.DueDate)
	return rental, nil
}

func mapInsertErr(err error) error {
	if _, ok := database.UniqueViolation(err); ok {
		// open (user, book) pair inserted by a concurrent checkout
		return errcode.New(ErrAlreadyRented)
	}
	if _, ok := database.ForeignKeyViolation(err); ok {
		return errcode.New(ErrUserNotFound)
	}
	return fmt.Errorf("insert rental: %w", err)
}

func (s *service) Return(ctx context.Context, rentalID int64) (out *model.Rental, err error) {
	ctx, span := tracer.Start(ctx, "rental.return")
	span.SetAttributes(attribute.Int64("rental.id", rentalID))
	defer func() {
		metrics.ObserveReturn(resultLabel(err))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var (
		rental   *model.Rental
		restored bool
	)
	err = s.tx.WithTx(ctx, func(q database.Querier) error {
		var err error
		rental, err = s.r.LockRental(ctx, q, rentalID)
		if err != nil {
			if database.IsNoRows(err) {
				return errcode.New(ErrNotFound)
			}
			return fmt.Errorf("lock rental: %w", err)
		}
		if rental.IsReturned {
			return errcode.New(ErrAlreadyReturned)
		}

		returnDate := s.now()
		charge := ComputeCharge(rental.RentalDate, rental.DueDate, returnDate, rental.DailyRate)

		rental.ReturnDate = &returnDate
		rental.TotalAmount = decimal.NewNullDecimal(charge.Total)
		rental.LateFee = charge.LateFee
		rental.IsReturned = true
		rental.Status = model.RentalReturned

		if err := s.r.MarkReturned(ctx, q, rental); err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}
		restored, err = s.r.FreeCopy(ctx, q, rental.BookID)
		if err != nil {
			return fmt.Errorf("free copy: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fee, _ := rental.LateFee.Float64()
	metrics.AddLateFee(fee)
	s.log.InfoContext(ctx, "rental returned",
		"rental_id", rental.ID, "book_id", rental.BookID,
		"total_amount", rental.TotalAmount.Decimal.StringFixed(2),
		"late_fee", rental.LateFee.StringFixed(2),
		"copy_restored", restored)
	return rental, nil
}

func (s *service) Get(ctx context.Context, rentalID int64) (*model.Rental, error) {
	r, err := s.r.ByID(ctx, rentalID)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

func (s *service) GetWithBook(ctx context.Context, rentalID int64) (*model.RentalWithBook, error) {
	r, err := s.Get(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	out := &model.RentalWithBook{Rental: *r}
	b, err := s.books.ByID(ctx, r.BookID)
	switch {
	case err == nil:
		out.Book = b
	case database.IsNoRows(err):
		// book row gone; the rental is still reported
	default:
		return nil, err
	}
	return out, nil
}

func (s *service) List(ctx context.Context, offset, limit int) ([]model.Rental, error) {
	return s.r.List(ctx, offset, limit)
}

func (s *service) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]model.Rental, error) {
	return s.r.ListByUser(ctx, userID, offset, limit)
}

func (s *service) ListOverdue(ctx context.Context) ([]model.Rental, error) {
	now := s.now()
	rows, err := s.r.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].IsOverdue(now) {
			rows[i].Status = model.RentalOverdue
		}
	}
	return rows, nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if c := errcode.Of(err); c != "" {
		return string(c)
	}
	return "error"
}

package rental

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bookrent/model"
	"bookrent/util/database"
)

// ErrNoCopy is returned by TakeCopy when the book has no copy left to lend.
var ErrNoCopy = errors.New("no available copy")

const rentalColumns = `id, user_id, book_id, rental_date, due_date, return_date, daily_rate,
	total_amount, is_returned, late_fee, status, created_at, updated_at`

// Stock is the part of a book row the ledger needs while checking out.
type Stock struct {
	BookID          int64
	TotalCopies     int
	AvailableCopies int
	IsActive        bool
}

type Repo struct {
	db *database.DB
}

func New(db *database.DB) *Repo { return &Repo{db: db} }

func scanRental(row pgx.Row) (*model.Rental, error) {
	r := &model.Rental{}
	err := row.Scan(
		&r.ID, &r.UserID, &r.BookID, &r.RentalDate, &r.DueDate, &r.ReturnDate, &r.DailyRate,
		&r.TotalAmount, &r.IsReturned, &r.LateFee, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func collect(rows pgx.Rows) ([]model.Rental, error) {
	defer rows.Close()

	out := []model.Rental{}
	for rows.Next() {
		r, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Books

// LockStock row-locks the book so concurrent checkouts serialize on it.
func (r *Repo) LockStock(ctx context.Context, q database.Querier, bookID int64) (*Stock, error) {
	const sql = `
		SELECT id, total_copies, available_copies, is_active
		FROM books
		WHERE id = $1
		FOR UPDATE`
	s := &Stock{}
	if err := q.QueryRow(ctx, sql, bookID).Scan(&s.BookID, &s.TotalCopies, &s.AvailableCopies, &s.IsActive); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repo) TakeCopy(ctx context.Context, q database.Querier, bookID int64) error {
	// Guard: never below zero.
	const sql = `
		UPDATE books
		SET available_copies = available_copies - 1,
			updated_at = NOW()
		WHERE id = $1
		AND available_copies > 0`
	tag, err := q.Exec(ctx, sql, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoCopy
	}
	return nil
}

// FreeCopy puts a copy back and reports whether the book row was updated. A
// missing book, or one already at full stock, is left alone.
func (r *Repo) FreeCopy(ctx context.Context, q database.Querier, bookID int64) (bool, error) {
	const sql = `
		UPDATE books
		SET available_copies = available_copies + 1,
			updated_at = NOW()
		WHERE id = $1
		AND available_copies < total_copies`
	tag, err := q.Exec(ctx, sql, bookID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Rentals

func (r *Repo) HasOpenRental(ctx context.Context, q database.Querier, userID, bookID int64) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1
			FROM rentals
			WHERE user_id = $1
			AND book_id = $2
			AND NOT is_returned
		)`
	var open bool
	err := q.QueryRow(ctx, sql, userID, bookID).Scan(&open)
	return open, err
}

func (r *Repo) Insert(ctx context.Context, q database.Querier, rt *model.Rental) error {
	const sql = `
		INSERT INTO rentals (user_id, book_id, rental_date, due_date, daily_rate, is_returned, late_fee, status)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
		RETURNING id, created_at, updated_at`
	return q.QueryRow(ctx, sql,
		rt.UserID, rt.BookID, rt.RentalDate, rt.DueDate, rt.DailyRate, rt.LateFee, rt.Status,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
}

func (r *Repo) LockRental(ctx context.Context, q database.Querier, rentalID int64) (*model.Rental, error) {
	const sql = `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE id = $1
		FOR UPDATE`
	return scanRental(q.QueryRow(ctx, sql, rentalID))
}

func (r *Repo) MarkReturned(ctx context.Context, q database.Querier, rt *model.Rental) error {
	const sql = `
		UPDATE rentals
		SET return_date = $2,
			total_amount = $3,
			late_fee = $4,
			is_returned = TRUE,
			status = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return q.QueryRow(ctx, sql,
		rt.ID, rt.ReturnDate, rt.TotalAmount, rt.LateFee, rt.Status,
	).Scan(&rt.UpdatedAt)
}

// Reads

func (r *Repo) ByID(ctx context.Context, rentalID int64) (*model.Rental, error) {
	const sql = `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE id = $1`
	return scanRental(r.db.Pool.QueryRow(ctx, sql, rentalID))
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]model.Rental, error) {
	const sql = `
		SELECT ` + rentalColumns + `
		FROM rentals
		ORDER BY id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, sql, offset, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *Repo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Rental, error) {
	const sql = `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`
	rows, err := r.db.Pool.Query(ctx, sql, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListOverdue returns unreturned rentals whose due date is before now.
func (r *Repo) ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error) {
	const sql = `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE due_date < $1
		AND NOT is_returned
		ORDER BY due_date, id`
	rows, err := r.db.Pool.Query(ctx, sql, now)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

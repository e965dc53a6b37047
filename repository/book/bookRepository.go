package bookrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"bookrent/model"
	"bookrent/util/database"
)

const bookColumns = `id, title, author, isbn, description, category, total_copies, available_copies,
	price, publication_year, is_active, created_at, updated_at`

type Repo struct{ db *database.DB }

func New(db *database.DB) *Repo { return &Repo{db} }

func scanBook(row pgx.Row) (*model.Book, error) {
	b := &model.Book{}
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Category,
		&b.TotalCopies, &b.AvailableCopies, &b.Price, &b.PublicationYear,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (title, author, isbn, description, category, total_copies, available_copies,
	price, publication_year, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING id, created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q,
		b.Title, b.Author, b.ISBN, b.Description, b.Category, b.TotalCopies, b.AvailableCopies,
		b.Price, b.PublicationYear, b.IsActive,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// List returns active books only.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE is_active
ORDER BY id
OFFSET $1 LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Detail returns an active book.
func (r *Repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE id = $1 AND is_active`
	return scanBook(r.db.Pool.QueryRow(ctx, q, id))
}

// ByID returns a book regardless of is_active.
func (r *Repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE id = $1`
	return scanBook(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *Repo) ByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE isbn = $1`
	return scanBook(r.db.Pool.QueryRow(ctx, q, isbn))
}

// LockByID row-locks the book for the rest of the transaction, active or not.
func (r *Repo) LockByID(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	const sql = `
SELECT ` + bookColumns + `
FROM books
WHERE id = $1
FOR UPDATE`
	return scanBook(q.QueryRow(ctx, sql, id))
}

func (r *Repo) ISBNTaken(ctx context.Context, q database.Querier, isbn string, exceptID int64) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1 AND id <> $2)`
	var taken bool
	err := q.QueryRow(ctx, sql, isbn, exceptID).Scan(&taken)
	return taken, err
}

func (r *Repo) Update(ctx context.Context, q database.Querier, b *model.Book) error {
	const sql = `
UPDATE books
SET title = $2,
	author = $3,
	isbn = $4,
	description = $5,
	category = $6,
	total_copies = $7,
	available_copies = $8,
	price = $9,
	publication_year = $10,
	is_active = $11,
	updated_at = NOW()
WHERE id = $1
RETURNING updated_at`
	return q.QueryRow(ctx, sql,
		b.ID, b.Title, b.Author, b.ISBN, b.Description, b.Category,
		b.TotalCopies, b.AvailableCopies, b.Price, b.PublicationYear, b.IsActive,
	).Scan(&b.UpdatedAt)
}

func (r *Repo) HasOpenRentals(ctx context.Context, q database.Querier, bookID int64) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM rentals WHERE book_id = $1 AND NOT is_returned)`
	var open bool
	err := q.QueryRow(ctx, sql, bookID).Scan(&open)
	return open, err
}

// Deactivate soft-deletes the book; copy counts are left untouched.
func (r *Repo) Deactivate(ctx context.Context, q database.Querier, id int64) error {
	const sql = `
UPDATE books
SET is_active = FALSE,
	updated_at = NOW()
WHERE id = $1`
	_, err := q.Exec(ctx, sql, id)
	return err
}

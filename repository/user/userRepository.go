package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"bookrent/model"
	"bookrent/util/database"
)

const userColumns = `id, name, email, age, is_active, password_hash, created_at, updated_at`

type Repo struct{ db *database.DB }

func New(db *database.DB) *Repo { return &Repo{db} }

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.IsActive, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repo) Create(ctx context.Context, u *model.User) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, age, is_active, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Age, u.IsActive, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *Repo) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id
		OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *Repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	))
}

func (r *Repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	))
}

// Update writes every mutable column of u and refreshes UpdatedAt.
func (r *Repo) Update(ctx context.Context, u *model.User) error {
	return r.db.Pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2,
			email = $3,
			age = $4,
			is_active = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		u.ID, u.Name, u.Email, u.Age, u.IsActive,
	).Scan(&u.UpdatedAt)
}

// Delete removes the row and reports whether one existed.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

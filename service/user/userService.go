package usersvc

import (
	"context"
	"fmt"
	"strings"

	"bookrent/model"
	"bookrent/util/database"
	"bookrent/util/errcode"
	"bookrent/util/hash"
)

const (
	ErrNotFound   errcode.Code = "USER_NOT_FOUND"
	ErrEmailTaken errcode.Code = "EMAIL_TAKEN"
	ErrHasRentals errcode.Code = "USER_HAS_RENTALS"
	ErrBadInput   errcode.Code = "BAD_INPUT"
)

type User = model.User

type Repo interface {
	Create(ctx context.Context, u *User) error
	List(ctx context.Context, offset, limit int) ([]User, error)
	ByID(ctx context.Context, id int64) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req model.CreateUserReq) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) (*User, error)
	Delete(ctx context.Context, id int64) error
	ByEmail(ctx context.Context, email string) (*User, error)
}

type service struct {
	r      Repo
	hashFn func(string) (string, error)
}

type Option func(*service)

// WithHasher replaces bcrypt, mostly for tests.
func WithHasher(fn func(string) (string, error)) Option {
	return func(s *service) { s.hashFn = fn }
}

func New(r Repo, opts ...Option) Service {
	s := &service{r: r, hashFn: hash.HashPassword}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *service) Create(ctx context.Context, req model.CreateUserReq) (*User, error) {
	name := strings.TrimSpace(req.Name)
	email := normEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, errcode.Newf(ErrBadInput, "name, email and password are required")
	}

	existing, err := s.r.ByEmail(ctx, email)
	if err != nil && !database.IsNoRows(err) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, errcode.New(ErrEmailTaken)
	}

	hashed, err := s.hashFn(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{Name: name, Email: email, Age: req.Age, IsActive: true, PasswordHash: hashed}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := s.r.Create(ctx, u); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, errcode.New(ErrEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, offset, limit int) ([]User, error) {
	return s.r.List(ctx, offset, limit)
}

func (s *service) Get(ctx context.Context, id int64) (*User, error) {
	u, err := s.r.ByID(ctx, id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) ByEmail(ctx context.Context, email string) (*User, error) {
	return s.r.ByEmail(ctx, normEmail(email))
}

func (s *service) Update(ctx context.Context, id int64, patch model.UserPatch) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errcode.Newf(ErrBadInput, "name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Email != nil {
		email := normEmail(*patch.Email)
		patch.Email = &email
		if email != u.Email {
			other, err := s.r.ByEmail(ctx, email)
			if err != nil && !database.IsNoRows(err) {
				return nil, fmt.Errorf("lookup email: %w", err)
			}
			if other != nil && other.ID != id {
				return nil, errcode.New(ErrEmailTaken)
			}
		}
	}

	patch.Apply(u)
	if err := s.r.Update(ctx, u); err != nil {
		if database.IsNoRows(err) {
			return nil, errcode.New(ErrNotFound)
		}
		if _, ok := database.UniqueViolation(err); ok {
			return nil, errcode.New(ErrEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

// Delete removes the user. Users referenced by any rental, returned or not,
// cannot be deleted.
func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		if _, fk := database.ForeignKeyViolation(err); fk {
			return errcode.New(ErrHasRentals)
		}
		return err
	}
	if !ok {
		return errcode.New(ErrNotFound)
	}
	return nil
}

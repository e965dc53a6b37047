package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          *int      `json:"age"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserReq represents user registration payload
// swagger:model CreateUserReq
type CreateUserReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Age      *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	IsActive *bool  `json:"is_active"`
}

// UserPatch holds the fields of a partial update; nil means "leave as is".
// swagger:model UserPatch
type UserPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Age      *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	IsActive *bool   `json:"is_active"`
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.IsActive == nil
}

// Apply copies every supplied field onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Age != nil {
		age := *p.Age
		u.Age = &age
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshReq represents the refresh payload
// swagger:model RefreshReq
type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	ISBN            string          `json:"isbn"`
	Description     *string         `json:"description"`
	Category        *string         `json:"category"`
	TotalCopies     int             `json:"total_copies"`
	AvailableCopies int             `json:"available_copies"`
	Price           decimal.Decimal `json:"price"`
	PublicationYear *int            `json:"publication_year"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CopiesValid reports whether the availability counts are consistent.
func (b Book) CopiesValid() bool {
	return b.AvailableCopies >= 0 && b.AvailableCopies <= b.TotalCopies
}

// CreateBookReq
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title           string           `json:"title" validate:"required,max=200"`
	Author          string           `json:"author" validate:"required,max=100"`
	ISBN            string           `json:"isbn" validate:"required,max=13"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category" validate:"omitempty,max=50"`
	TotalCopies     *int             `json:"total_copies" validate:"omitempty,gte=0"`
	Price           *decimal.Decimal `json:"price" validate:"required"`
	PublicationYear *int             `json:"publication_year" validate:"omitempty,gte=0,lte=9999"`
	IsActive        *bool            `json:"is_active"`
}

// BookPatch holds the fields of a partial update.
// swagger:model BookPatch
type BookPatch struct {
	Title           *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Author          *string          `json:"author" validate:"omitempty,min=1,max=100"`
	ISBN            *string          `json:"isbn" validate:"omitempty,min=1,max=13"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category" validate:"omitempty,max=50"`
	TotalCopies     *int             `json:"total_copies" validate:"omitempty,gte=0"`
	AvailableCopies *int             `json:"available_copies" validate:"omitempty,gte=0"`
	Price           *decimal.Decimal `json:"price"`
	PublicationYear *int             `json:"publication_year" validate:"omitempty,gte=0,lte=9999"`
	IsActive        *bool            `json:"is_active"`
}

// Apply copies every supplied field onto b.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Description != nil {
		b.Description = p.Description
	}
	if p.Category != nil {
		b.Category = p.Category
	}
	if p.TotalCopies != nil {
		b.TotalCopies = *p.TotalCopies
	}
	if p.AvailableCopies != nil {
		b.AvailableCopies = *p.AvailableCopies
	}
	if p.Price != nil {
		b.Price = p.Price.Round(2)
	}
	if p.PublicationYear != nil {
		b.PublicationYear = p.PublicationYear
	}
	if p.IsActive != nil {
		b.IsActive = *p.IsActive
	}
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalActive   RentalStatus = "active"
	RentalReturned RentalStatus = "returned"
	// RentalOverdue is derived at read time and never stored.
	RentalOverdue RentalStatus = "overdue"
)

type Rental struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	BookID      int64               `json:"book_id"`
	RentalDate  time.Time           `json:"rental_date"`
	DueDate     time.Time           `json:"due_date"`
	ReturnDate  *time.Time          `json:"return_date"`
	DailyRate   decimal.Decimal     `json:"daily_rate"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
	IsReturned  bool                `json:"is_returned"`
	LateFee     decimal.Decimal     `json:"late_fee"`
	Status      RentalStatus        `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// IsOverdue reports whether an unreturned rental is past its due date at now.
func (r Rental) IsOverdue(now time.Time) bool {
	return !r.IsReturned && r.DueDate.Before(now)
}

// RentalWithBook embeds the rented book, resolved by an explicit lookup.
type RentalWithBook struct {
	Rental
	Book *Book `json:"book"`
}

package rental

import (
	"time"

	"github.com/shopspring/decimal"

	"bookrent/model"
)

// CheckoutReq is the checkout payload. user_id defaults to the caller.
// swagger:model CheckoutReq
type CheckoutReq struct {
	UserID    int64            `json:"user_id" validate:"omitempty,gt=0"`
	BookID    int64            `json:"book_id" validate:"required,gt=0"`
	DueDate   time.Time        `json:"due_date" validate:"required"`
	DailyRate *decimal.Decimal `json:"daily_rate" validate:"required"`
}

// swagger:model RentalListResp
type ListResp struct {
	Data []model.Rental `json:"data"`
}

func listOf(rows []model.Rental) ListResp {
	if rows == nil {
		rows = []model.Rental{}
	}
	return ListResp{Data: rows}
}

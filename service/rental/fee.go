package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// lateFeeFactor is the share of the daily rate charged per full day late.
var lateFeeFactor = decimal.NewFromFloat(0.5)

// Charge is what a returned rental costs.
type Charge struct {
	RentalDays int64
	Total      decimal.Decimal
	LateDays   int64
	LateFee    decimal.Decimal
}

// ComputeCharge bills every started day inclusively (a same-day return is one
// day) and adds half the daily rate for each full day past due.
func ComputeCharge(rentalDate, dueDate, returnDate time.Time, dailyRate decimal.Decimal) Charge {
	c := Charge{
		RentalDays: wholeDays(returnDate.Sub(rentalDate)) + 1,
		LateFee:    decimal.Zero,
	}
	c.Total = dailyRate.Mul(decimal.NewFromInt(c.RentalDays)).Round(2)

	if returnDate.After(dueDate) {
		c.LateDays = wholeDays(returnDate.Sub(dueDate))
		c.LateFee = dailyRate.Mul(lateFeeFactor).Mul(decimal.NewFromInt(c.LateDays)).Round(2)
	}
	return c
}

// wholeDays floors d to whole days, like a calendar delta's day component.
func wholeDays(d time.Duration) int64 {
	n := int64(d / day)
	if d < 0 && d%day != 0 {
		n--
	}
	return n
}

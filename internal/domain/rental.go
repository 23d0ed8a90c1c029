package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultRentalPeriodDays = 7
	DefaultLateFee          = 25
)

var ErrRentalClosed = errors.New("rental already closed")

var day = decimal.NewFromInt(int64(24 * time.Hour))

// RentalPolicy holds the store's rental window and the flat late surcharge.
type RentalPolicy struct {
	Period  time.Duration
	LateFee decimal.Decimal
}

func DefaultRentalPolicy() RentalPolicy {
	return RentalPolicy{
		Period:  DefaultRentalPeriodDays * 24 * time.Hour,
		LateFee: decimal.NewFromInt(DefaultLateFee),
	}
}

// Rental is open while DateReturned is nil. RentalFee is set together with
// DateReturned and neither changes afterwards.
type Rental struct {
	ID              uuid.UUID
	MovieID         uuid.UUID
	CustomerID      uuid.UUID
	RentalStartDate time.Time
	ReturnByDate    time.Time
	DateReturned    *time.Time
	RentalFee       *decimal.Decimal
}

func NewRental(customerID, movieID uuid.UUID, now time.Time, policy RentalPolicy) *Rental {
	return &Rental{
		ID:              uuid.New(),
		MovieID:         movieID,
		CustomerID:      customerID,
		RentalStartDate: now,
		ReturnByDate:    now.Add(policy.Period),
	}
}

func (r *Rental) IsOpen() bool {
	return r.DateReturned == nil
}

// IsOverdue reports whether an open rental has passed its return-by date at now.
func (r *Rental) IsOverdue(now time.Time) bool {
	return r.IsOpen() && now.After(r.ReturnByDate)
}

// Close records the return at now and the fee owed for it.
func (r *Rental) Close(now time.Time, dailyRate decimal.Decimal, policy RentalPolicy) error {
	if !r.IsOpen() {
		return ErrRentalClosed
	}
	fee := RentalFee(r.RentalStartDate, r.ReturnByDate, now, dailyRate, policy.LateFee)
	returned := now
	r.DateReturned = &returned
	r.RentalFee = &fee
	return nil
}

// ElapsedDays is the fractional number of days between start and now, never
// negative.
func ElapsedDays(start, now time.Time) decimal.Decimal {
	if now.Before(start) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(now.Sub(start))).Div(day)
}

// RentalFee charges dailyRate per elapsed (fractional) day, plus lateFee when
// now is strictly after returnBy.
func RentalFee(start, returnBy, now time.Time, dailyRate, lateFee decimal.Decimal) decimal.Decimal {
	fee := dailyRate.Mul(ElapsedDays(start, now))
	if now.After(returnBy) {
		fee = fee.Add(lateFee)
	}
	return fee
}

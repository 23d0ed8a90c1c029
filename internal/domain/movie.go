package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenreRef is the genre snapshot embedded in a movie at write time.
type GenreRef struct {
	ID   uuid.UUID
	Name string
}

type Movie struct {
	ID              uuid.UUID
	Title           string
	Genre           GenreRef
	NumberInStock   int
	DailyRentalRate decimal.Decimal
}

// InStock reports whether at least one copy can be checked out.
func (m *Movie) InStock() bool {
	return m.NumberInStock > 0
}

// RateDecimals is the precision daily rates are stored with.
const RateDecimals = 2

// RoundRate rounds a daily rate to the stored precision so every backend
// charges the same amount.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(RateDecimals)
}

package http

import (
	"time"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/service"
)

type genreRequest struct {
	Name string `json:"name" validate:"required,min=5,max=50"`
}

type genreResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type movieRequest struct {
	Title           string   `json:"title" validate:"required,min=5,max=255"`
	GenreID         string   `json:"genreId" validate:"required,uuid"`
	NumberInStock   *int     `json:"numberInStock" validate:"required,min=0,max=255"`
	DailyRentalRate *float64 `json:"dailyRentalRate" validate:"required,min=0,max=255"`
}

type movieResponse struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Genre           genreResponse `json:"genre"`
	NumberInStock   int           `json:"numberInStock"`
	DailyRentalRate float64       `json:"dailyRentalRate"`
}

type customerRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=80"`
	Phone  string `json:"phone" validate:"required,min=10,max=11"`
	IsGold bool   `json:"isGold"`
}

type customerResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone"`
	IsGold bool      `json:"isGold"`
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	BirthYear int    `json:"birthYear" validate:"required,min=1900,notfuture"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	BirthYear int       `json:"birthYear,omitempty"`
	IsAdmin   bool      `json:"isAdmin,omitempty"`
}

type rentalRequest struct {
	CustomerID string `json:"customerId" validate:"required,uuid"`
	MovieID    string `json:"movieId" validate:"required,uuid"`
}

type rentalResponse struct {
	ID              uuid.UUID  `json:"id"`
	Movie           uuid.UUID  `json:"movie"`
	Customer        uuid.UUID  `json:"customer"`
	RentalStartDate time.Time  `json:"rentalStartDate"`
	ReturnByDate    time.Time  `json:"returnByDate"`
	DateReturned    *time.Time `json:"dateReturned,omitempty"`
	RentalFee       *float64   `json:"rentalFee,omitempty"`
}

// rentalCustomer and rentalMovie fall back to the bare id when the
// referenced record no longer exists.
type rentalCustomer struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name,omitempty"`
	Phone  string    `json:"phone,omitempty"`
	IsGold *bool     `json:"isGold,omitempty"`
}

type rentalMovie struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title,omitempty"`
	Genre           *genreResponse `json:"genre,omitempty"`
	DailyRentalRate *float64       `json:"dailyRentalRate,omitempty"`
}

type rentalDetailResponse struct {
	ID              uuid.UUID      `json:"id"`
	Movie           rentalMovie    `json:"movie"`
	Customer        rentalCustomer `json:"customer"`
	RentalStartDate time.Time      `json:"rentalStartDate"`
	ReturnByDate    time.Time      `json:"returnByDate"`
	DateReturned    *time.Time     `json:"dateReturned,omitempty"`
	RentalFee       *float64       `json:"rentalFee,omitempty"`
}

func toGenreResponse(g domain.Genre) genreResponse {
	return genreResponse{ID: g.ID, Name: g.Name}
}

func toMovieResponse(m domain.Movie) movieResponse {
	return movieResponse{
		ID:              m.ID,
		Title:           m.Title,
		Genre:           genreResponse{ID: m.Genre.ID, Name: m.Genre.Name},
		NumberInStock:   m.NumberInStock,
		DailyRentalRate: m.DailyRentalRate.InexactFloat64(),
	}
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{ID: c.ID, Name: c.Name, Phone: c.Phone, IsGold: c.IsGold}
}

func toRentalResponse(rt domain.Rental) rentalResponse {
	resp := rentalResponse{
		ID:              rt.ID,
		Movie:           rt.MovieID,
		Customer:        rt.CustomerID,
		RentalStartDate: rt.RentalStartDate,
		ReturnByDate:    rt.ReturnByDate,
		DateReturned:    rt.DateReturned,
	}
	if rt.RentalFee != nil {
		fee := rt.RentalFee.Round(2).InexactFloat64()
		resp.RentalFee = &fee
	}
	return resp
}

func toRentalDetailResponse(d service.RentalDetails) rentalDetailResponse {
	base := toRentalResponse(d.Rental)
	resp := rentalDetailResponse{
		ID:              base.ID,
		Movie:           rentalMovie{ID: d.MovieID},
		Customer:        rentalCustomer{ID: d.CustomerID},
		RentalStartDate: base.RentalStartDate,
		ReturnByDate:    base.ReturnByDate,
		DateReturned:    base.DateReturned,
		RentalFee:       base.RentalFee,
	}
	if c := d.Customer; c != nil {
		gold := c.IsGold
		resp.Customer.Name = c.Name
		resp.Customer.Phone = c.Phone
		resp.Customer.IsGold = &gold
	}
	if m := d.Movie; m != nil {
		rate := m.DailyRentalRate.InexactFloat64()
		resp.Movie.Title = m.Title
		resp.Movie.Genre = &genreResponse{ID: m.Genre.ID, Name: m.Genre.Name}
		resp.Movie.DailyRentalRate = &rate
	}
	return resp
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

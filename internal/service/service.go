package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository"
)

// RentalDetails is a rental together with the customer and movie it
// references. Customer or Movie is nil once that record has been deleted.
type RentalDetails struct {
	domain.Rental
	Customer *domain.Customer
	Movie    *domain.Movie
}

type RentalService interface {
	Checkout(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	ProcessReturn(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	GetRental(ctx context.Context, id uuid.UUID) (*RentalDetails, error)
	ListRentals(ctx context.Context, filter repository.RentalFilter) ([]RentalDetails, error)
	ListOverdue(ctx context.Context) ([]domain.Rental, error)
}

type GenreService interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
	CreateGenre(ctx context.Context, name string) (*domain.Genre, error)
	UpdateGenre(ctx context.Context, id uuid.UUID, name string) (*domain.Genre, error)
	DeleteGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
}

// MovieInput carries the writable fields of a movie. The genre is given by
// id and resolved to its current name on write.
type MovieInput struct {
	Title           string
	GenreID         uuid.UUID
	NumberInStock   int
	DailyRentalRate decimal.Decimal
}

type MovieService interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	CreateMovie(ctx context.Context, in MovieInput) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, in MovieInput) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string, birthYear int) (*domain.User, string, error) // user, access token
	Login(ctx context.Context, email, password string) (string, error)
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type EmailService interface {
	SendOverdueReport(ctx context.Context, to string, report OverdueReport) error
}

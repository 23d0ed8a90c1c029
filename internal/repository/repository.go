package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type GenreRepository interface {
	Create(ctx context.Context, genre *domain.Genre) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error)
	List(ctx context.Context) ([]domain.Genre, error)
	Update(ctx context.Context, genre *domain.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	// GetForUpdate reads the movie and holds its row lock until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock adds delta to number_in_stock and returns the new count.
	// It fails with ErrInsufficientStock rather than going below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// RentalFilter narrows List. Zero values match everything.
type RentalFilter struct {
	CustomerID uuid.UUID
	MovieID    uuid.UUID
	OpenOnly   bool
	// OverdueAt keeps only rentals still open and past their return-by date
	// at that instant.
	OverdueAt time.Time
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error)
	List(ctx context.Context, filter RentalFilter) ([]domain.Rental, error)
	// FindLatestForUpdate returns the rental for (customer, movie) to be
	// returned next: the most recent open one, otherwise the most recent
	// closed one. The row stays locked until the transaction ends.
	FindLatestForUpdate(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error)
	// MarkReturned persists DateReturned and RentalFee of an open rental.
	MarkReturned(ctx context.Context, rental *domain.Rental) error
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Genres    GenreRepository
	Movies    MovieRepository
	Customers CustomerRepository
	Users     UserRepository
	Rentals   RentalRepository
}

// TxRunner runs fn inside a single atomic unit of work. fn's error aborts
// the unit; a nil return commits it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

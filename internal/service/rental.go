package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
)

type rentalService struct {
	repos  repository.Repositories
	tx     repository.TxRunner
	policy domain.RentalPolicy
	clock  func() time.Time
}

type RentalOption func(*rentalService)

// WithClock replaces time.Now as the source of rental timestamps.
func WithClock(clock func() time.Time) RentalOption {
	return func(s *rentalService) {
		s.clock = clock
	}
}

func NewRentalService(repos repository.Repositories, tx repository.TxRunner, policy domain.RentalPolicy, opts ...RentalOption) RentalService {
	s := &rentalService{
		repos:  repos,
		tx:     tx,
		policy: policy,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// now is truncated to the precision Postgres keeps for timestamptz.
func (s *rentalService) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

func (s *rentalService) Checkout(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.Checkout", "customerID", customerID, "movieID", movieID)

	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Customers.GetByID(ctx, customerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		movie, err := repos.Movies.GetForUpdate(ctx, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMovieNotFound
			}
			return err
		}
		if !movie.InStock() {
			return ErrOutOfStock
		}

		rental = domain.NewRental(customerID, movieID, s.now(), s.policy)
		if err := repos.Rentals.Create(ctx, rental); err != nil {
			return err
		}

		if _, err := repos.Movies.AdjustStock(ctx, movieID, -1); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return ErrOutOfStock
			}
			return err
		}
		return nil
	})
	if err != nil {
		err = asTransactionFailed(err)
		logger.ExitMethodWithError("rentalService.Checkout", err, "customerID", customerID, "movieID", movieID)
		return nil, err
	}

	logger.Info("Rental checked out", "rentalID", rental.ID, "customerID", customerID, "movieID", movieID, "returnBy", rental.ReturnByDate)
	logger.ExitMethod("rentalService.Checkout", "rentalID", rental.ID)
	return rental, nil
}

func (s *rentalService) ProcessReturn(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.ProcessReturn", "customerID", customerID, "movieID", movieID)

	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rt, err := repos.Rentals.FindLatestForUpdate(ctx, customerID, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRentalNotFound
			}
			return err
		}
		if !rt.IsOpen() {
			return ErrAlreadyProcessed
		}

		movie, err := repos.Movies.GetForUpdate(ctx, movieID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		if err := rt.Close(s.now(), movie.DailyRentalRate, s.policy); err != nil {
			return ErrAlreadyProcessed
		}
		if err := repos.Rentals.MarkReturned(ctx, rt); err != nil {
			// Another return closed it between the lookup and the update.
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAlreadyProcessed
			}
			return err
		}

		if _, err := repos.Movies.AdjustStock(ctx, movieID, 1); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMovieNotFound
			}
			return err
		}

		rental = rt
		return nil
	})
	if err != nil {
		err = asTransactionFailed(err)
		logger.ExitMethodWithError("rentalService.ProcessReturn", err, "customerID", customerID, "movieID", movieID)
		return nil, err
	}

	logger.Info("Rental returned", "rentalID", rental.ID, "fee", rental.RentalFee.String(), "late", rental.DateReturned.After(rental.ReturnByDate))
	logger.ExitMethod("rentalService.ProcessReturn", "rentalID", rental.ID)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, id uuid.UUID) (*RentalDetails, error) {
	rt, err := s.repos.Rentals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	details, err := s.withReferences(ctx, []domain.Rental{*rt})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *rentalService) ListRentals(ctx context.Context, filter repository.RentalFilter) ([]RentalDetails, error) {
	rentals, err := s.repos.Rentals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withReferences(ctx, rentals)
}

// withReferences loads every referenced customer and movie once. A record
// deleted since checkout stays nil.
func (s *rentalService) withReferences(ctx context.Context, rentals []domain.Rental) ([]RentalDetails, error) {
	customers := make(map[uuid.UUID]*domain.Customer)
	movies := make(map[uuid.UUID]*domain.Movie)

	details := make([]RentalDetails, 0, len(rentals))
	for _, rt := range rentals {
		c, ok := customers[rt.CustomerID]
		if !ok {
			found, err := s.repos.Customers.GetByID(ctx, rt.CustomerID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			if err == nil {
				c = found
			}
			customers[rt.CustomerID] = c
		}

		m, ok := movies[rt.MovieID]
		if !ok {
			found, err := s.repos.Movies.GetByID(ctx, rt.MovieID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			if err == nil {
				m = found
			}
			movies[rt.MovieID] = m
		}

		details = append(details, RentalDetails{Rental: rt, Customer: c, Movie: m})
	}
	return details, nil
}

// ListOverdue returns the open rentals whose return-by date has passed.
func (s *rentalService) ListOverdue(ctx context.Context) ([]domain.Rental, error) {
	return s.repos.Rentals.List(ctx, repository.RentalFilter{OverdueAt: s.now()})
}

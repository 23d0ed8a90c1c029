// Package memory is an in-process repository backend. Every call and every
// transaction is serialized on one mutex; transactions work on a copy of the
// dataset that replaces the live one only when fn succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
)

type dataset struct {
	genres    map[uuid.UUID]domain.Genre
	movies    map[uuid.UUID]domain.Movie
	customers map[uuid.UUID]domain.Customer
	users     map[uuid.UUID]domain.User
	rentals   map[uuid.UUID]domain.Rental
}

func newDataset() *dataset {
	return &dataset{
		genres:    map[uuid.UUID]domain.Genre{},
		movies:    map[uuid.UUID]domain.Movie{},
		customers: map[uuid.UUID]domain.Customer{},
		users:     map[uuid.UUID]domain.User{},
		rentals:   map[uuid.UUID]domain.Rental{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.genres {
		c.genres[k] = v
	}
	for k, v := range d.movies {
		c.movies[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.rentals {
		c.rentals[k] = copyRental(v)
	}
	return c
}

func copyRental(r domain.Rental) domain.Rental {
	if r.DateReturned != nil {
		t := *r.DateReturned
		r.DateReturned = &t
	}
	if r.RentalFee != nil {
		f := *r.RentalFee
		r.RentalFee = &f
	}
	return r
}

// source hands a repository the dataset it should operate on.
type source interface {
	with(fn func(d *dataset) error) error
}

// lockedSource serves standalone calls against the live dataset.
type lockedSource struct {
	s *Store
}

func (l lockedSource) with(fn func(d *dataset) error) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return fn(l.s.data)
}

// txSource serves calls made inside WithinTx; the store lock is already held.
type txSource struct {
	d *dataset
}

func (t txSource) with(fn func(d *dataset) error) error {
	return fn(t.d)
}

type Store struct {
	mu   sync.Mutex
	data *dataset
	repository.Repositories
}

func NewStore() *Store {
	s := &Store{data: newDataset()}
	s.Repositories = newRepositories(lockedSource{s: s})
	return s
}

func newRepositories(src source) repository.Repositories {
	return repository.Repositories{
		Genres:    &genreRepository{src: src},
		Movies:    &movieRepository{src: src},
		Customers: &customerRepository{src: src},
		Users:     &userRepository{src: src},
		Rentals:   &rentalRepository{src: src},
	}
}

// WithinTx runs fn against a snapshot of the dataset and publishes the
// snapshot only when fn returns nil. Transactions never interleave.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, newRepositories(txSource{d: snapshot})); err != nil {
		logger.Debug("Memory transaction discarded", "error", err)
		return err
	}
	s.data = snapshot
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

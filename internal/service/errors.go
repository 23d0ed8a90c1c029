package service

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrGenreNotFound      = errors.New("genre not found")
	ErrOutOfStock         = errors.New("movie not in stock")
	ErrRentalNotFound     = errors.New("rental not found")
	ErrAlreadyProcessed   = errors.New("rental already processed")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already registered")
	ErrUserNotFound       = errors.New("user not found")
)

var knownErrors = []error{
	ErrCustomerNotFound,
	ErrMovieNotFound,
	ErrGenreNotFound,
	ErrOutOfStock,
	ErrRentalNotFound,
	ErrAlreadyProcessed,
	ErrTransactionFailed,
}

// asTransactionFailed passes the rental taxonomy through and folds every
// other store failure into ErrTransactionFailed.
func asTransactionFailed(err error) error {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository"
)

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	c, err := s.customerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (s *customerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	return s.customerRepo.Create(ctx, c)
}

func (s *customerService) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	err := s.customerRepo.Update(ctx, c)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

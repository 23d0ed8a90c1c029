package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository"
)

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.genreRepo.List(ctx)
}

func (s *genreService) GetGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	g, err := s.genreRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGenreNotFound
	}
	return g, err
}

func (s *genreService) CreateGenre(ctx context.Context, name string) (*domain.Genre, error) {
	g := &domain.Genre{Name: name}
	if err := s.genreRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *genreService) UpdateGenre(ctx context.Context, id uuid.UUID, name string) (*domain.Genre, error) {
	g := &domain.Genre{ID: id, Name: name}
	if err := s.genreRepo.Update(ctx, g); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	g, err := s.GetGenre(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.genreRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return g, nil
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository"
)

type movieService struct {
	movieRepo repository.MovieRepository
	genreRepo repository.GenreRepository
}

func NewMovieService(movieRepo repository.MovieRepository, genreRepo repository.GenreRepository) MovieService {
	return &movieService{
		movieRepo: movieRepo,
		genreRepo: genreRepo,
	}
}

func (s *movieService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.movieRepo.List(ctx)
}

func (s *movieService) GetMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	m, err := s.movieRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMovieNotFound
	}
	return m, err
}

func (s *movieService) CreateMovie(ctx context.Context, in MovieInput) (*domain.Movie, error) {
	m, err := s.build(ctx, uuid.Nil, in)
	if err != nil {
		return nil, err
	}
	if err := s.movieRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, id uuid.UUID, in MovieInput) (*domain.Movie, error) {
	m, err := s.build(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.movieRepo.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	m, err := s.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.movieRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// build snapshots the referenced genre into the movie.
func (s *movieService) build(ctx context.Context, id uuid.UUID, in MovieInput) (*domain.Movie, error) {
	genre, err := s.genreRepo.GetByID(ctx, in.GenreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &domain.Movie{
		ID:              id,
		Title:           in.Title,
		Genre:           domain.GenreRef{ID: genre.ID, Name: genre.Name},
		NumberInStock:   in.NumberInStock,
		DailyRentalRate: domain.RoundRate(in.DailyRentalRate),
	}, nil
}

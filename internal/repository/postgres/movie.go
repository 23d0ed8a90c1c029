package postgres

import (
	"context"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
)

const movieColumns = `id, title, genre_id, genre_name, number_in_stock, daily_rental_rate`

type movieRepository struct {
	db DBTX
}

func NewMovieRepository(db DBTX) repository.MovieRepository {
	return &movieRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*domain.Movie, error) {
	m := &domain.Movie{}
	err := row.Scan(&m.ID, &m.Title, &m.Genre.ID, &m.Genre.Name, &m.NumberInStock, &m.DailyRentalRate)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *movieRepository) Create(ctx context.Context, m *domain.Movie) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	query := `INSERT INTO movies (` + movieColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate)
	return translateError(err)
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	m, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (r *movieRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("movies.GetForUpdate", query, "movie_id", id)
	m, err := scanMovie(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (r *movieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

func (r *movieRepository) Update(ctx context.Context, m *domain.Movie) error {
	query := `UPDATE movies SET title = $1, genre_id = $2, genre_name = $3, number_in_stock = $4, daily_rental_rate = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate, m.ID)
	if err != nil {
		return translateError(err)
	}
	return rowsAffected(res)
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return rowsAffected(res)
}

func (r *movieRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	query := `UPDATE movies SET number_in_stock = number_in_stock + $1 WHERE id = $2 RETURNING number_in_stock`
	logger.DatabaseCall("movies.AdjustStock", query, "movie_id", id, "delta", delta)
	var stock int
	err := r.db.QueryRowContext(ctx, query, delta, id).Scan(&stock)
	if err != nil {
		err = translateError(err)
		logger.DatabaseResult("movies.AdjustStock", 0, err)
		return 0, err
	}
	logger.DatabaseResult("movies.AdjustStock", 1, nil, "number_in_stock", stock)
	return stock, nil
}

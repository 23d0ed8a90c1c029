package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository/memory"
	"video-rental-store/internal/service"
)

func TestMovieService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	genres := service.NewGenreService(store.Genres)
	movies := service.NewMovieService(store.Movies, store.Genres)

	genre, err := genres.CreateGenre(ctx, "Science Fiction")
	require.NoError(t, err)

	t.Run("Create snapshots the genre", func(t *testing.T) {
		m, err := movies.CreateMovie(ctx, service.MovieInput{
			Title:           "Solaris",
			GenreID:         genre.ID,
			NumberInStock:   4,
			DailyRentalRate: decimal.RequireFromString("1.5"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.GenreRef{ID: genre.ID, Name: "Science Fiction"}, m.Genre)

		got, err := movies.GetMovie(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.NumberInStock)
	})

	t.Run("Rate is stored with two decimals", func(t *testing.T) {
		m, err := movies.CreateMovie(ctx, service.MovieInput{
			Title:           "Tarkovsky Box",
			GenreID:         genre.ID,
			NumberInStock:   1,
			DailyRentalRate: decimal.RequireFromString("1.005"),
		})
		require.NoError(t, err)
		assert.Equal(t, "1.01", m.DailyRentalRate.String())

		got, err := movies.GetMovie(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "1.01", got.DailyRentalRate.String())
	})

	t.Run("Unknown genre", func(t *testing.T) {
		_, err := movies.CreateMovie(ctx, service.MovieInput{Title: "Stalker", GenreID: uuid.New()})
		assert.ErrorIs(t, err, service.ErrGenreNotFound)
	})

	t.Run("Update and delete", func(t *testing.T) {
		m, err := movies.CreateMovie(ctx, service.MovieInput{Title: "Alien", GenreID: genre.ID, NumberInStock: 1})
		require.NoError(t, err)

		updated, err := movies.UpdateMovie(ctx, m.ID, service.MovieInput{Title: "Aliens", GenreID: genre.ID, NumberInStock: 2})
		require.NoError(t, err)
		assert.Equal(t, "Aliens", updated.Title)

		_, err = movies.UpdateMovie(ctx, uuid.New(), service.MovieInput{Title: "Ghost", GenreID: genre.ID})
		assert.ErrorIs(t, err, service.ErrMovieNotFound)

		deleted, err := movies.DeleteMovie(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Aliens", deleted.Title)

		_, err = movies.DeleteMovie(ctx, m.ID)
		assert.ErrorIs(t, err, service.ErrMovieNotFound)
	})
}

func TestGenreAndCustomerServices(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	genres := service.NewGenreService(store.Genres)
	customers := service.NewCustomerService(store.Customers)

	_, err := genres.UpdateGenre(ctx, uuid.New(), "Horror")
	assert.ErrorIs(t, err, service.ErrGenreNotFound)
	_, err = genres.GetGenre(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrGenreNotFound)

	c := &domain.Customer{Name: "Ann", Phone: "5551112222", IsGold: true}
	require.NoError(t, customers.CreateCustomer(ctx, c))
	c.IsGold = false
	require.NoError(t, customers.UpdateCustomer(ctx, c))

	got, err := customers.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsGold)

	assert.ErrorIs(t, customers.UpdateCustomer(ctx, &domain.Customer{ID: uuid.New()}), service.ErrCustomerNotFound)

	_, err = customers.DeleteCustomer(ctx, c.ID)
	require.NoError(t, err)
	_, err = customers.GetCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository"
)

var rentalRowColumns = []string{"id", "movie_id", "customer_id", "rental_start_date", "return_by_date", "date_returned", "rental_fee"}

func TestRentalRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rental := domain.NewRental(uuid.New(), uuid.New(), now, domain.DefaultRentalPolicy())

	mock.ExpectExec("INSERT INTO rentals").
		WithArgs(rental.ID, rental.MovieID, rental.CustomerID, rental.RentalStartDate, rental.ReturnByDate).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx, rental)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Closed rental", func(t *testing.T) {
		id, movieID, customerID := uuid.New(), uuid.New(), uuid.New()
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		returned := start.Add(3 * 24 * time.Hour)

		rows := sqlmock.NewRows(rentalRowColumns).
			AddRow(id.String(), movieID.String(), customerID.String(), start, start.Add(7*24*time.Hour), returned, "30.5")
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(rows)

		rt, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, rt.ID)
		assert.Equal(t, movieID, rt.MovieID)
		assert.Equal(t, customerID, rt.CustomerID)
		require.NotNil(t, rt.DateReturned)
		assert.Equal(t, returned, *rt.DateReturned)
		require.NotNil(t, rt.RentalFee)
		assert.True(t, decimal.RequireFromString("30.5").Equal(*rt.RentalFee))
	})

	t.Run("Open rental", func(t *testing.T) {
		id := uuid.New()
		start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(rentalRowColumns).
			AddRow(id.String(), uuid.NewString(), uuid.NewString(), start, start.Add(7*24*time.Hour), nil, nil)
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(rows)

		rt, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, rt.IsOpen())
		assert.Nil(t, rt.RentalFee)
	})

	t.Run("Not found", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(rentalRowColumns))

		rt, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, rt)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_FindLatestForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()
	customerID, movieID := uuid.New(), uuid.New()

	t.Run("Locks the selected row", func(t *testing.T) {
		start := time.Now().UTC().Add(-48 * time.Hour)
		rows := sqlmock.NewRows(rentalRowColumns).
			AddRow(uuid.NewString(), movieID.String(), customerID.String(), start, start.Add(7*24*time.Hour), nil, nil)
		mock.ExpectQuery("SELECT (.+) FROM rentals (.+) ORDER BY \\(date_returned IS NULL\\) DESC, rental_start_date DESC (.+) FOR UPDATE").
			WithArgs(customerID, movieID).
			WillReturnRows(rows)

		rt, err := repo.FindLatestForUpdate(ctx, customerID, movieID)
		require.NoError(t, err)
		assert.True(t, rt.IsOpen())
		assert.Equal(t, customerID, rt.CustomerID)
	})

	t.Run("No rental", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals").
			WithArgs(customerID, movieID).
			WillReturnRows(sqlmock.NewRows(rentalRowColumns))

		_, err := repo.FindLatestForUpdate(ctx, customerID, movieID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_MarkReturned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	policy := domain.DefaultRentalPolicy()
	start := time.Now().UTC().Add(-24 * time.Hour)
	rental := domain.NewRental(uuid.New(), uuid.New(), start, policy)
	require.NoError(t, rental.Close(time.Now().UTC(), decimal.NewFromInt(3), policy))

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE rentals SET date_returned = \\$1, rental_fee = \\$2 WHERE id = \\$3 AND date_returned IS NULL").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), rental.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkReturned(ctx, rental))
	})

	t.Run("Already returned", func(t *testing.T) {
		mock.ExpectExec("UPDATE rentals").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), rental.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkReturned(ctx, rental), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRentalRepository(db)
	ctx := context.Background()

	t.Run("No filter", func(t *testing.T) {
		start := time.Now().UTC()
		rows := sqlmock.NewRows(rentalRowColumns).
			AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), start, start.Add(time.Hour), nil, nil).
			AddRow(uuid.NewString(), uuid.NewString(), uuid.NewString(), start, start.Add(time.Hour), start, "1.25")
		mock.ExpectQuery(`SELECT (.+) FROM "rentals" ORDER BY "rental_start_date" DESC`).
			WillReturnRows(rows)

		rentals, err := repo.List(ctx, repository.RentalFilter{})
		require.NoError(t, err)
		assert.Len(t, rentals, 2)
		assert.True(t, rentals[0].IsOpen())
		assert.False(t, rentals[1].IsOpen())
	})

	t.Run("Open rentals of a customer", func(t *testing.T) {
		customerID := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM "rentals" WHERE \(\("customer_id" = \$1\) AND \("date_returned" IS NULL\)\)`).
			WithArgs(customerID.String()).
			WillReturnRows(sqlmock.NewRows(rentalRowColumns))

		rentals, err := repo.List(ctx, repository.RentalFilter{CustomerID: customerID, OpenOnly: true})
		require.NoError(t, err)
		assert.Empty(t, rentals)
	})

	t.Run("Overdue at an instant", func(t *testing.T) {
		at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`SELECT (.+) FROM "rentals" WHERE \(\("date_returned" IS NULL\) AND \("return_by_date" < \$1\)\)`).
			WithArgs(at).
			WillReturnRows(sqlmock.NewRows(rentalRowColumns))

		rentals, err := repo.List(ctx, repository.RentalFilter{OverdueAt: at})
		require.NoError(t, err)
		assert.Empty(t, rentals)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
)

const rentalColumns = `id, movie_id, customer_id, rental_start_date, return_by_date, date_returned, rental_fee`

var dialect = goqu.Dialect("postgres")

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	var (
		rt       domain.Rental
		returned sql.NullTime
		fee      decimal.NullDecimal
	)
	err := row.Scan(&rt.ID, &rt.MovieID, &rt.CustomerID, &rt.RentalStartDate, &rt.ReturnByDate, &returned, &fee)
	if err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time
		rt.DateReturned = &t
	}
	if fee.Valid {
		f := fee.Decimal
		rt.RentalFee = &f
	}
	return &rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (id, movie_id, customer_id, rental_start_date, return_by_date) 
	          VALUES ($1, $2, $3, $4, $5)`
	logger.DatabaseCall("rentals.Create", query, "rental_id", rt.ID)
	res, err := r.db.ExecContext(ctx, query, rt.ID, rt.MovieID, rt.CustomerID, rt.RentalStartDate, rt.ReturnByDate)
	if err != nil {
		err = translateError(err)
		logger.DatabaseResult("rentals.Create", 0, err)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("rentals.Create", n, nil)
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return rt, nil
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	ds := dialect.From("rentals").
		Select("id", "movie_id", "customer_id", "rental_start_date", "return_by_date", "date_returned", "rental_fee").
		Order(goqu.I("rental_start_date").Desc())

	if filter.CustomerID != uuid.Nil {
		ds = ds.Where(goqu.C("customer_id").Eq(filter.CustomerID.String()))
	}
	if filter.MovieID != uuid.Nil {
		ds = ds.Where(goqu.C("movie_id").Eq(filter.MovieID.String()))
	}
	if filter.OpenOnly {
		ds = ds.Where(goqu.C("date_returned").IsNull())
	}
	if !filter.OverdueAt.IsZero() {
		ds = ds.Where(
			goqu.C("date_returned").IsNull(),
			goqu.C("return_by_date").Lt(filter.OverdueAt),
		)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) FindLatestForUpdate(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals 
	          WHERE customer_id = $1 AND movie_id = $2 
	          ORDER BY (date_returned IS NULL) DESC, rental_start_date DESC 
	          LIMIT 1 FOR UPDATE`
	logger.DatabaseCall("rentals.FindLatestForUpdate", query, "customer_id", customerID, "movie_id", movieID)
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, customerID, movieID))
	if err != nil {
		return nil, translateError(err)
	}
	return rt, nil
}

func (r *rentalRepository) MarkReturned(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET date_returned = $1, rental_fee = $2 WHERE id = $3 AND date_returned IS NULL`
	logger.DatabaseCall("rentals.MarkReturned", query, "rental_id", rt.ID)
	res, err := r.db.ExecContext(ctx, query, rt.DateReturned, rt.RentalFee, rt.ID)
	if err != nil {
		err = translateError(err)
		logger.DatabaseResult("rentals.MarkReturned", 0, err)
		return err
	}
	if err := rowsAffected(res); err != nil {
		logger.DatabaseResult("rentals.MarkReturned", 0, err)
		return err
	}
	logger.DatabaseResult("rentals.MarkReturned", 1, nil)
	return nil
}

package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/repository"
)

type genreRepository struct {
	src source
}

func (r *genreRepository) Create(ctx context.Context, g *domain.Genre) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return r.src.with(func(d *dataset) error {
		if _, ok := d.genres[g.ID]; ok {
			return repository.ErrDuplicate
		}
		d.genres[g.ID] = *g
		return nil
	})
}

func (r *genreRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Genre, error) {
	var out domain.Genre
	err := r.src.with(func(d *dataset) error {
		g, ok := d.genres[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *genreRepository) List(ctx context.Context) ([]domain.Genre, error) {
	genres := []domain.Genre{}
	_ = r.src.with(func(d *dataset) error {
		for _, g := range d.genres {
			genres = append(genres, g)
		}
		return nil
	})
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, g *domain.Genre) error {
	return r.src.with(func(d *dataset) error {
		if _, ok := d.genres[g.ID]; !ok {
			return repository.ErrNotFound
		}
		d.genres[g.ID] = *g
		return nil
	})
}

func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.src.with(func(d *dataset) error {
		if _, ok := d.genres[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.genres, id)
		return nil
	})
}

type movieRepository struct {
	src source
}

func (r *movieRepository) Create(ctx context.Context, m *domain.Movie) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.NumberInStock < 0 {
		return repository.ErrInsufficientStock
	}
	return r.src.with(func(d *dataset) error {
		if _, ok := d.movies[m.ID]; ok {
			return repository.ErrDuplicate
		}
		d.movies[m.ID] = *m
		return nil
	})
}

func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	var out domain.Movie
	err := r.src.with(func(d *dataset) error {
		m, ok := d.movies[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate needs no row lock here: transactions already hold the store lock.
func (r *movieRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	return r.GetByID(ctx, id)
}

func (r *movieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	movies := []domain.Movie{}
	_ = r.src.with(func(d *dataset) error {
		for _, m := range d.movies {
			movies = append(movies, m)
		}
		return nil
	})
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies, nil
}

func (r *movieRepository) Update(ctx context.Context, m *domain.Movie) error {
	if m.NumberInStock < 0 {
		return repository.ErrInsufficientStock
	}
	return r.src.with(func(d *dataset) error {
		if _, ok := d.movies[m.ID]; !ok {
			return repository.ErrNotFound
		}
		d.movies[m.ID] = *m
		return nil
	})
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.src.with(func(d *dataset) error {
		if _, ok := d.movies[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.movies, id)
		return nil
	})
}

func (r *movieRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var stock int
	err := r.src.with(func(d *dataset) error {
		m, ok := d.movies[id]
		if !ok {
			return repository.ErrNotFound
		}
		if m.NumberInStock+delta < 0 {
			return repository.ErrInsufficientStock
		}
		m.NumberInStock += delta
		d.movies[id] = m
		stock = m.NumberInStock
		return nil
	})
	return stock, err
}

type customerRepository struct {
	src source
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.src.with(func(d *dataset) error {
		if _, ok := d.customers[c.ID]; ok {
			return repository.ErrDuplicate
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var out domain.Customer
	err := r.src.with(func(d *dataset) error {
		c, ok := d.customers[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	_ = r.src.with(func(d *dataset) error {
		for _, c := range d.customers {
			customers = append(customers, c)
		}
		return nil
	})
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	return r.src.with(func(d *dataset) error {
		if _, ok := d.customers[c.ID]; !ok {
			return repository.ErrNotFound
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.src.with(func(d *dataset) error {
		if _, ok := d.customers[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.customers, id)
		return nil
	})
}

type userRepository struct {
	src source
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return r.src.with(func(d *dataset) error {
		for _, existing := range d.users {
			if existing.ID == u.ID || existing.Email == u.Email || existing.Username == u.Username {
				return repository.ErrDuplicate
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepository) find(match func(domain.User) bool) (*domain.User, error) {
	var out *domain.User
	_ = r.src.with(func(d *dataset) error {
		for _, u := range d.users {
			if match(u) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	if out == nil {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

type rentalRepository struct {
	src source
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	return r.src.with(func(d *dataset) error {
		if _, ok := d.rentals[rt.ID]; ok {
			return repository.ErrDuplicate
		}
		d.rentals[rt.ID] = copyRental(*rt)
		return nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	var out domain.Rental
	err := r.src.with(func(d *dataset) error {
		rt, ok := d.rentals[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = copyRental(rt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	rentals := []domain.Rental{}
	_ = r.src.with(func(d *dataset) error {
		for _, rt := range d.rentals {
			if matches(rt, filter) {
				rentals = append(rentals, copyRental(rt))
			}
		}
		return nil
	})
	sort.Slice(rentals, func(i, j int) bool {
		return rentals[i].RentalStartDate.After(rentals[j].RentalStartDate)
	})
	return rentals, nil
}

func matches(rt domain.Rental, f repository.RentalFilter) bool {
	if f.CustomerID != uuid.Nil && rt.CustomerID != f.CustomerID {
		return false
	}
	if f.MovieID != uuid.Nil && rt.MovieID != f.MovieID {
		return false
	}
	if f.OpenOnly && !rt.IsOpen() {
		return false
	}
	if !f.OverdueAt.IsZero() && !rt.IsOverdue(f.OverdueAt) {
		return false
	}
	return true
}

func (r *rentalRepository) FindLatestForUpdate(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	var best *domain.Rental
	_ = r.src.with(func(d *dataset) error {
		for _, rt := range d.rentals {
			if rt.CustomerID != customerID || rt.MovieID != movieID {
				continue
			}
			if best == nil || preferred(rt, *best) {
				c := copyRental(rt)
				best = &c
			}
		}
		return nil
	})
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

// preferred orders open rentals before closed ones, then newest first.
func preferred(a, b domain.Rental) bool {
	if a.IsOpen() != b.IsOpen() {
		return a.IsOpen()
	}
	return a.RentalStartDate.After(b.RentalStartDate)
}

func (r *rentalRepository) MarkReturned(ctx context.Context, rt *domain.Rental) error {
	return r.src.with(func(d *dataset) error {
		stored, ok := d.rentals[rt.ID]
		if !ok || !stored.IsOpen() {
			return repository.ErrNotFound
		}
		stored.DateReturned = rt.DateReturned
		stored.RentalFee = rt.RentalFee
		d.rentals[rt.ID] = copyRental(stored)
		return nil
	})
}

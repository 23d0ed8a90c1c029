package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"video-rental-store/internal/config"
	"video-rental-store/internal/domain"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
	"video-rental-store/internal/repository/postgres"
)

type SeedMovie struct {
	Title           string  `yaml:"title"`
	NumberInStock   int     `yaml:"number_in_stock"`
	DailyRentalRate float64 `yaml:"daily_rental_rate"`
}

type SeedGenre struct {
	Name   string      `yaml:"name"`
	Movies []SeedMovie `yaml:"movies"`
}

type SeedCustomer struct {
	Name   string `yaml:"name"`
	Phone  string `yaml:"phone"`
	IsGold bool   `yaml:"is_gold"`
}

type SeedUser struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	BirthYear int    `yaml:"birth_year"`
	IsAdmin   bool   `yaml:"is_admin"`
}

type SeedData struct {
	Genres    []SeedGenre    `yaml:"genres"`
	Customers []SeedCustomer `yaml:"customers"`
	Users     []SeedUser     `yaml:"users"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	seedPath := flag.String("data", "config/seed.yaml", "Path to seed data file")
	flag.Parse()

	cfg, err := config.Load(resolvePath(*configPath))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("Seeding needs a persistent store, got driver %q", cfg.Database.Driver)
	}

	data, err := readSeedFile(resolvePath(*seedPath))
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	ctx := context.Background()
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := populate(ctx, postgres.NewStore(db), data); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}
	logger.Info("Seed data populated",
		"genres", len(data.Genres),
		"customers", len(data.Customers),
		"users", len(data.Users))
}

func readSeedFile(filename string) (*SeedData, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// resolvePath tries path as given, then relative to the module root.
func resolvePath(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}

	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		dir = parent
	}
}

// populate writes the whole data set in one transaction. Users whose email
// is already registered are skipped so the seed can be rerun.
func populate(ctx context.Context, tx repository.TxRunner, data *SeedData) error {
	return tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		for _, g := range data.Genres {
			genre := &domain.Genre{Name: g.Name}
			if err := repos.Genres.Create(ctx, genre); err != nil {
				return fmt.Errorf("create genre %s: %w", g.Name, err)
			}
			for _, m := range g.Movies {
				movie := &domain.Movie{
					Title:           m.Title,
					Genre:           domain.GenreRef{ID: genre.ID, Name: genre.Name},
					NumberInStock:   m.NumberInStock,
					DailyRentalRate: domain.RoundRate(decimal.NewFromFloat(m.DailyRentalRate)),
				}
				if err := repos.Movies.Create(ctx, movie); err != nil {
					return fmt.Errorf("create movie %s: %w", m.Title, err)
				}
			}
		}

		for _, c := range data.Customers {
			customer := &domain.Customer{Name: c.Name, Phone: c.Phone, IsGold: c.IsGold}
			if err := repos.Customers.Create(ctx, customer); err != nil {
				return fmt.Errorf("create customer %s: %w", c.Name, err)
			}
		}

		for _, u := range data.Users {
			if _, err := repos.Users.GetByEmail(ctx, u.Email); err == nil {
				logger.Info("User already exists, skipping", "email", u.Email)
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("look up user %s: %w", u.Email, err)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			user := &domain.User{
				Username:     u.Username,
				Email:        u.Email,
				PasswordHash: string(hash),
				BirthYear:    u.BirthYear,
				IsAdmin:      u.IsAdmin,
			}
			if err := repos.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("create user %s: %w", u.Email, err)
			}
		}
		return nil
	})
}

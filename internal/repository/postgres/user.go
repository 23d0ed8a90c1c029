package postgres

import (
	"context"

	"github.com/google/uuid"

	"video-rental-store/internal/domain"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
)

const userColumns = `id, username, email, password_hash, birth_year, is_admin`

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	logger.DatabaseCall("users.Create", query, "username", u.Username)
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Email, u.PasswordHash, u.BirthYear, u.IsAdmin)
	if err != nil {
		err = translateError(err)
		logger.DatabaseResult("users.Create", 0, err)
		return err
	}
	logger.DatabaseResult("users.Create", 1, nil)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.BirthYear, &u.IsAdmin)
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

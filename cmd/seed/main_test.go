package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"video-rental-store/internal/repository/memory"
)

const seedYAML = `
genres:
  - name: Comedy
    movies:
      - title: Airplane!
        number_in_stock: 3
        daily_rental_rate: 2
      - title: Groundhog Day
        number_in_stock: 1
        daily_rental_rate: 2.5
customers:
  - name: Jane Doe
    phone: "5551234567"
    is_gold: true
users:
  - username: admin
    email: admin@example.com
    password: change-me-please
    birth_year: 1980
    is_admin: true
`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	return path
}

func TestReadSeedFile(t *testing.T) {
	data, err := readSeedFile(writeSeed(t))
	require.NoError(t, err)

	require.Len(t, data.Genres, 1)
	assert.Len(t, data.Genres[0].Movies, 2)
	assert.Equal(t, 2.5, data.Genres[0].Movies[1].DailyRentalRate)
	assert.True(t, data.Customers[0].IsGold)
	assert.True(t, data.Users[0].IsAdmin)

	_, err = readSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	data, err := readSeedFile(writeSeed(t))
	require.NoError(t, err)

	store := memory.NewStore()
	require.NoError(t, populate(ctx, store, data))

	movies, err := store.Movies.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Comedy", movies[0].Genre.Name)

	user, err := store.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("change-me-please")))

	t.Run("Rerun skips existing users", func(t *testing.T) {
		require.NoError(t, populate(ctx, store, &SeedData{Users: data.Users}))
	})
}

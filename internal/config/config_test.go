package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: `+testSecret+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 7, cfg.Rental.PeriodDays)
	assert.Equal(t, float64(25), cfg.Rental.LateFee)
	assert.Equal(t, "0 0 9 * * *", cfg.Scheduler.OverdueReport)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry())

	policy := cfg.RentalPolicy()
	assert.Equal(t, 7*24*time.Hour, policy.Period)
	assert.True(t, decimal.NewFromInt(25).Equal(policy.LateFee))
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  host: db.internal
  user: store
  database: store
jwt:
  secret: `+testSecret+`
`)
	t.Setenv("DB_PORT", "6543")
	t.Setenv("RENTAL_LATE_FEE", "12.5")
	t.Setenv("RENTAL_PERIOD_DAYS", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 3, cfg.Rental.PeriodDays)
	assert.Equal(t, 12.5, cfg.Rental.LateFee)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres://store:@db.internal:6543/store?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "bad port",
			cfg:     Config{Server: ServerConfig{Port: 0}},
			wantErr: "invalid server port",
		},
		{
			name:    "postgres without host",
			cfg:     Config{Server: ServerConfig{Port: 80}},
			wantErr: "database host is required",
		},
		{
			name:    "unknown driver",
			cfg:     Config{Server: ServerConfig{Port: 80}, Database: DatabaseConfig{Driver: "mongo"}},
			wantErr: "unknown database driver",
		},
		{
			name:    "short secret",
			cfg:     Config{Server: ServerConfig{Port: 80}, Database: DatabaseConfig{Driver: DriverMemory}, JWT: JWTConfig{Secret: "short"}},
			wantErr: "at least 32 characters",
		},
		{
			name: "negative late fee",
			cfg: Config{
				Server:   ServerConfig{Port: 80},
				Database: DatabaseConfig{Driver: DriverMemory},
				JWT:      JWTConfig{Secret: testSecret},
				Rental:   RentalConfig{LateFee: -1},
			},
			wantErr: "invalid late fee",
		},
		{
			name: "sendgrid without manager",
			cfg: Config{
				Server:       ServerConfig{Port: 80},
				Database:     DatabaseConfig{Driver: DriverMemory},
				JWT:          JWTConfig{Secret: testSecret},
				Notification: NotificationConfig{SendGridAPIKey: "SG.key"},
			},
			wantErr: "manager email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

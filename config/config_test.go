package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHIRP_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expire)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.Worker.RecheckDelay)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHIRP_JWT_SECRET", "s")
	t.Setenv("CHIRP_SERVER_PORT", "8088")
	t.Setenv("CHIRP_DATABASE_DRIVER", "sqlite")
	t.Setenv("CHIRP_REDIS_ADDR", "localhost:6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CHIRP_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestValidateDriver(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{Secret: "s", Expire: time.Hour},
		Database: DatabaseConfig{Driver: "mysql"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())
}

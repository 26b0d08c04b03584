package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "vivita_inventory_", cfg.Cache.Prefix)
	assert.Equal(t, "Asia/Manila", cfg.App.Timezone)
}

func TestLoadDurations(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CACHE_DRIVER", "memory")

	t.Run("plain seconds", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "120")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	})

	t.Run("go duration", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "90s")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "postgres"},
			App:      AppConfig{Timezone: "UTC"},
			Cache:    CacheConfig{Driver: "memory"},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Cache.Driver = "redis"
	assert.Error(t, cfg.Validate(), "redis without URL")

	cfg = base()
	cfg.App.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", db.GetDSN())
}

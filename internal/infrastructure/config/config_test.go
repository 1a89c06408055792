package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "opsdash-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)

	assert.Equal(t, "info", cfg.Log.Level)

	// Sandbox defaults; the credential triple has none
	assert.Empty(t, cfg.SPAPI.ClientID)
	assert.Empty(t, cfg.SPAPI.ClientSecret)
	assert.Empty(t, cfg.SPAPI.RefreshToken)
	assert.Equal(t, "https://api.amazon.com/auth/o2/token", cfg.SPAPI.TokenEndpoint)
	assert.Equal(t, "https://sandbox.sellingpartnerapi-na.amazon.com", cfg.SPAPI.SandboxEndpoint)
	assert.Equal(t, "ATVPDKIKX0DER", cfg.SPAPI.MarketplaceID)
	assert.Equal(t, "TEST_CASE_200", cfg.SPAPI.CreatedAfter)
	assert.Equal(t, 30*time.Second, cfg.SPAPI.Timeout)

	assert.Empty(t, cfg.Notify.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)

	assert.Equal(t, 15*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 100, cfg.Sync.OrderListLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPSDASH_APP_PORT", "9090")
	t.Setenv("OPSDASH_SPAPI_CLIENT_ID", "env-client-id")
	t.Setenv("OPSDASH_NOTIFY_WEBHOOK_URL", "https://hooks.example.com/T000/B000")
	t.Setenv("OPSDASH_SYNC_DEMO_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "env-client-id", cfg.SPAPI.ClientID)
	assert.Equal(t, "https://hooks.example.com/T000/B000", cfg.Notify.WebhookURL)
	assert.True(t, cfg.Sync.DemoMode)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("sync interval below one minute is rejected", func(t *testing.T) {
		cfg := base()
		cfg.Sync.Interval = 30 * time.Second
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		assert.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		assert.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "opsdash",
		Password: "p@ss/word",
		DBName:   "orders",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	SPAPI    SPAPIConfig
	Notify   NotifyConfig
	Sync     SyncConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

// SPAPIConfig holds credentials and endpoints for the Selling Partner API.
// The credential triple has no defaults; the sandbox values default to the
// static sandbox test case.
type SPAPIConfig struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	TokenEndpoint   string
	SandboxEndpoint string
	MarketplaceID   string
	CreatedAfter    string
	Timeout         time.Duration
}

// NotifyConfig holds webhook notification settings. An empty URL disables
// notifications entirely.
type NotifyConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// SyncConfig holds ETL pipeline settings
type SyncConfig struct {
	DemoMode         bool
	SchedulerEnabled bool
	Interval         time.Duration
	OrderListLimit   int
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with OPSDASH_ prefix (e.g. OPSDASH_SPAPI_CLIENT_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("OPSDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
		SPAPI: SPAPIConfig{
			ClientID:        v.GetString("spapi.client_id"),
			ClientSecret:    v.GetString("spapi.client_secret"),
			RefreshToken:    v.GetString("spapi.refresh_token"),
			TokenEndpoint:   v.GetString("spapi.token_endpoint"),
			SandboxEndpoint: v.GetString("spapi.sandbox_endpoint"),
			MarketplaceID:   v.GetString("spapi.marketplace_id"),
			CreatedAfter:    v.GetString("spapi.created_after"),
			Timeout:         v.GetDuration("spapi.timeout"),
		},
		Notify: NotifyConfig{
			WebhookURL: v.GetString("notify.webhook_url"),
			Timeout:    v.GetDuration("notify.timeout"),
		},
		Sync: SyncConfig{
			DemoMode:         v.GetBool("sync.demo_mode"),
			SchedulerEnabled: v.GetBool("sync.scheduler_enabled"),
			Interval:         v.GetDuration("sync.interval"),
			OrderListLimit:   v.GetInt("sync.order_list_limit"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields. Secrets
// (the SP-API credential triple, database password) intentionally have no
// defaults.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "opsdash-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "opsdash"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.SPAPI.TokenEndpoint == "" {
		cfg.SPAPI.TokenEndpoint = "https://api.amazon.com/auth/o2/token"
	}
	if cfg.SPAPI.SandboxEndpoint == "" {
		cfg.SPAPI.SandboxEndpoint = "https://sandbox.sellingpartnerapi-na.amazon.com"
	}
	if cfg.SPAPI.MarketplaceID == "" {
		cfg.SPAPI.MarketplaceID = "ATVPDKIKX0DER"
	}
	if cfg.SPAPI.CreatedAfter == "" {
		// Static sandbox trigger value returning canned test orders
		cfg.SPAPI.CreatedAfter = "TEST_CASE_200"
	}
	if cfg.SPAPI.Timeout == 0 {
		cfg.SPAPI.Timeout = 30 * time.Second
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = 10 * time.Second
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 15 * time.Minute
	}
	if cfg.Sync.OrderListLimit == 0 {
		cfg.Sync.OrderListLimit = 100
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("sync.interval must be at least one minute, got %s", c.Sync.Interval)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

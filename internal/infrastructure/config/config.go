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
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// Load reads configuration from config.toml and the environment.
// Environment variables with the WORKSHOP_ prefix win over the file
// (e.g. WORKSHOP_DATABASE_PASSWORD), the file wins over built-in
// defaults. Zero or empty values count as unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and env vars take over
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("WORKSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:      appSection(v),
		Database: databaseSection(v),
		Log:      logSection(v),
		HTTP:     httpSection(v),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func appSection(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: orString(v.GetString("app.name"), "workshop-backend"),
		Env:  orString(v.GetString("app.env"), "development"),
		Port: orString(v.GetString("app.port"), "8080"),
	}
}

func databaseSection(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            orString(v.GetString("database.host"), "localhost"),
		Port:            orInt(v.GetInt("database.port"), 5432),
		User:            orString(v.GetString("database.user"), "postgres"),
		Password:        v.GetString("database.password"),
		DBName:          orString(v.GetString("database.dbname"), "workshop"),
		SSLMode:         orString(v.GetString("database.sslmode"), "disable"),
		MaxOpenConns:    orInt(v.GetInt("database.max_open_conns"), 25),
		MaxIdleConns:    orInt(v.GetInt("database.max_idle_conns"), 5),
		ConnMaxLifetime: orInt(v.GetInt("database.conn_max_lifetime"), 60),
		ConnMaxIdleTime: orInt(v.GetInt("database.conn_max_idle_time"), 30),
	}
}

func logSection(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  orString(v.GetString("log.level"), "info"),
		Format: orString(v.GetString("log.format"), "console"),
		Output: orString(v.GetString("log.output"), "stdout"),
	}
}

func httpSection(v *viper.Viper) HTTPConfig {
	cfg := HTTPConfig{
		ReadTimeout:      orDuration(v.GetDuration("http.read_timeout"), 15*time.Second),
		WriteTimeout:     orDuration(v.GetDuration("http.write_timeout"), 15*time.Second),
		IdleTimeout:      orDuration(v.GetDuration("http.idle_timeout"), 60*time.Second),
		MaxHeaderBytes:   orInt(v.GetInt("http.max_header_bytes"), 1<<20),
		MaxBodySize:      v.GetInt64("http.max_body_size"),
		CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 10 << 20
	}
	// CORS origins get no "*" fallback: an empty list rejects
	// cross-origin requests until origins are configured explicitly
	if len(cfg.CORSAllowMethods) == 0 {
		cfg.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.CORSAllowHeaders) == 0 {
		cfg.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	return cfg
}

func orString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func orInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func orDuration(value, fallback time.Duration) time.Duration {
	if value == 0 {
		return fallback
	}
	return value
}

// validate rejects configurations the server cannot run with
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

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}
	return nil
}

// DSN returns the database connection string with escaped credentials
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

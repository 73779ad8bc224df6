// Package config loads settings and opens the connections the app needs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	GraphDatabase = "database"
	GraphRedis    = "redis"
	GraphNeo4j    = "neo4j"

	ReaderORM = "orm"
	ReaderSQL = "sql"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Feed     FeedConfig     `yaml:"feed"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type AppConfig struct {
	Port            int           `yaml:"port"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string        `yaml:"driver"`
	DSN          string        `yaml:"dsn"`
	AutoMigrate  bool          `yaml:"auto_migrate"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"`
	ConnectRetry time.Duration `yaml:"connect_retry"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type FeedConfig struct {
	// GraphBackend selects where follow edges live: database, redis or neo4j.
	GraphBackend string `yaml:"graph_backend"`
	// Reader selects the feed read path: orm (per-entry reads) or sql (one pgx query).
	Reader       string        `yaml:"reader"`
	Concurrency  int           `yaml:"concurrency"`
	Timeout      time.Duration `yaml:"timeout"`
	DefaultLimit int           `yaml:"default_limit"`
	MaxLimit     int           `yaml:"max_limit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // development | production
}

// Default returns the settings used when neither file nor env set a value.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Port:            8080,
			TokenTTL:        7 * 24 * time.Hour,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverMySQL,
			AutoMigrate:  true,
			MaxOpenConns: 20,
			MaxIdleConns: 10,
			ConnLifetime: time.Hour,
			ConnectRetry: 30 * time.Second,
		},
		Feed: FeedConfig{
			GraphBackend: GraphDatabase,
			Reader:       ReaderORM,
			Concurrency:  8,
			Timeout:      5 * time.Second,
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "development",
		},
	}
}

// Load reads .env, then the YAML file at path (skipped when path is empty),
// then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.App.JWTSecret, "JWT_SECRET")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DB_DSN")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Neo4j.URI, "NEO4J_URI")
	setString(&c.Neo4j.User, "NEO4J_USER")
	setString(&c.Neo4j.Password, "NEO4J_PASS")
	setString(&c.Feed.GraphBackend, "GRAPH_BACKEND")
	setString(&c.Feed.Reader, "FEED_READER")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	var errs []error
	errs = append(errs,
		setInt(&c.App.Port, "APP_PORT"),
		setInt(&c.Redis.DB, "REDIS_DB"),
		setInt(&c.Feed.Concurrency, "FEED_CONCURRENCY"),
		setDuration(&c.Feed.Timeout, "FEED_TIMEOUT"),
		setDuration(&c.App.TokenTTL, "TOKEN_TTL"),
	)
	return errors.Join(errs...)
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	if c.App.JWTSecret == "" {
		return errors.New("JWT secret is required (set JWT_SECRET)")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.Port)
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Feed.GraphBackend {
	case GraphDatabase:
	case GraphRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis graph backend")
		}
	case GraphNeo4j:
		if c.Neo4j.URI == "" {
			return errors.New("NEO4J_URI is required for the neo4j graph backend")
		}
	default:
		return fmt.Errorf("unknown graph backend %q", c.Feed.GraphBackend)
	}

	switch c.Feed.Reader {
	case ReaderORM:
	case ReaderSQL:
		if c.Database.Driver != DriverPostgres {
			return errors.New("the sql feed reader requires the postgres driver")
		}
		if c.Feed.GraphBackend != GraphDatabase {
			return errors.New("the sql feed reader reads follow edges from postgres; use graph backend \"database\"")
		}
	default:
		return fmt.Errorf("unknown feed reader %q", c.Feed.Reader)
	}

	if c.Feed.Concurrency <= 0 {
		return errors.New("feed concurrency must be positive")
	}
	if c.Feed.DefaultLimit <= 0 || c.Feed.MaxLimit < c.Feed.DefaultLimit {
		return fmt.Errorf("invalid feed limits: default %d, max %d", c.Feed.DefaultLimit, c.Feed.MaxLimit)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.App.Port)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr           string         `yaml:"addr"`
	LogLevel       string         `yaml:"log_level"`
	StoreDriver    string         `yaml:"store_driver"`
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	Playground     bool           `yaml:"graphql_playground"`
	Mongo          MongoConfig    `yaml:"mongo"`
	Postgres       PostgresConfig `yaml:"postgres"`
	AMQP           AMQPConfig     `yaml:"amqp"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type PostgresConfig struct {
	URL string `yaml:"url"`
}

// AMQPConfig configures event publishing. An empty URL disables the broker.
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

func defaults() Config {
	return Config{
		Addr:           ":8080",
		LogLevel:       "INFO",
		StoreDriver:    DriverMongo,
		RequestTimeout: 10 * time.Second,
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "user_directory",
		},
		AMQP: AMQPConfig{Exchange: "users"},
	}
}

// Load reads .env when present, then the YAML file named by CONFIG_FILE,
// then environment variables. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("APP_ADDR", &cfg.Addr)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setString("STORE_DRIVER", &cfg.StoreDriver)
	setString("MONGODB_URI", &cfg.Mongo.URI)
	setString("MONGODB_DATABASE", &cfg.Mongo.Database)
	setString("DATABASE_URL", &cfg.Postgres.URL)
	setString("AMQP_URL", &cfg.AMQP.URL)
	setString("AMQP_EXCHANGE", &cfg.AMQP.Exchange)

	if v := os.Getenv("GRAPHQL_PLAYGROUND"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: GRAPHQL_PLAYGROUND: %w", err)
		}
		cfg.Playground = b
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	return nil
}

// Validate checks that the selected store has what it needs.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("config: mongo store needs MONGODB_URI and MONGODB_DATABASE")
		}
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("config: DATABASE_URL is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all daemon configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	State  StateConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SWITCHD_HOST" default:"127.0.0.1"`
	Port            int           `envconfig:"SWITCHD_PORT" default:"8086"`
	ReadTimeout     time.Duration `envconfig:"SWITCHD_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SWITCHD_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SWITCHD_SHUTDOWN_TIMEOUT" default:"30s"`
}

// StoreConfig selects where the account registry and token store live.
type StoreConfig struct {
	Backend    string `envconfig:"SWITCHD_STORE_BACKEND" default:"sqlite"` // sqlite or file
	SQLitePath string `envconfig:"SWITCHD_SQLITE_PATH" default:"switchd.db"`
	Dir        string `envconfig:"SWITCHD_STORE_DIR" default:"./data"`
}

// StateConfig selects where the switch state flag lives.
type StateConfig struct {
	Backend string `envconfig:"SWITCHD_STATE_BACKEND" default:"sqlite"` // sqlite, redis, or memory

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *StateConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

type Config struct {
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	MySQLDSN  string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/slowinventory?parseTime=true"`

	// Artificial latency. The whole point of this demo is a slow backend.
	ReadDelay  time.Duration `env:"READ_DELAY" envDefault:"2s"`
	ClaimDelay time.Duration `env:"CLAIM_DELAY" envDefault:"1500ms"`

	// Probability (0..1) that a read fails after its delay. Disabled by
	// default.
	ReadFailureRate float64 `env:"READ_FAILURE_RATE" envDefault:"0"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendMySQL:
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %s (must be memory/redis/mysql)", c.StoreBackend)
	}
	if c.ReadDelay < 0 || c.ClaimDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.ReadFailureRate < 0 || c.ReadFailureRate > 1 {
		return fmt.Errorf("READ_FAILURE_RATE must be in [0, 1], got %g", c.ReadFailureRate)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

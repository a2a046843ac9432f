package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	WorldBank struct {
		BaseURL          string        `yaml:"base_url"`
		Timeout          time.Duration `yaml:"timeout"`
		CountriesPerPage int           `yaml:"countries_per_page"`
		SeriesPerPage    int           `yaml:"series_per_page"`
		GlobalCode       string        `yaml:"global_code"`
		RateLimitBurst   float64       `yaml:"rate_limit_burst"`
		RateLimitPerSec  float64       `yaml:"rate_limit_per_sec"`
	} `yaml:"worldbank"`
	Cache struct {
		TTL         time.Duration `yaml:"ttl"`
		CountryTTL  time.Duration `yaml:"country_ttl"`
		Backend     string        `yaml:"backend"` // memory or layered
		MemoryItems int           `yaml:"memory_items"`
		Redis       struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("WORLDBANK_BASE_URL"); v != "" {
		c.WorldBank.BaseURL = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.WorldBank.Timeout == 0 {
		c.WorldBank.Timeout = 15 * time.Second
	}
	if c.WorldBank.CountriesPerPage == 0 {
		c.WorldBank.CountriesPerPage = 400
	}
	if c.WorldBank.SeriesPerPage == 0 {
		c.WorldBank.SeriesPerPage = 80
	}
	if c.WorldBank.GlobalCode == "" {
		c.WorldBank.GlobalCode = "WLD"
	}
	if c.WorldBank.RateLimitBurst == 0 {
		c.WorldBank.RateLimitBurst = 10
	}
	if c.WorldBank.RateLimitPerSec == 0 {
		c.WorldBank.RateLimitPerSec = 5
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.CountryTTL == 0 {
		c.Cache.CountryTTL = time.Hour
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.MemoryItems == 0 {
		c.Cache.MemoryItems = 1000
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.WorldBank.BaseURL == "" {
		return fmt.Errorf("worldbank.base_url is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "layered" {
		return fmt.Errorf("cache.backend must be 'memory' or 'layered', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "layered" && c.Cache.Redis.Host == "" {
		return fmt.Errorf("cache.redis.host is required for layered backend")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	return nil
}

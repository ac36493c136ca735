// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultScheduleAuditCron = "0 3 * * *"

type StoreConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
	// For the redis driver
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
	RedisPassword string `yaml:"-"` // Loaded from environment
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
	} `yaml:"app"`

	Store StoreConfig `yaml:"store"`

	Jobs struct {
		ScheduleAudit string `yaml:"schedule_audit"`
	} `yaml:"jobs"`
}

// Load loads both .env and yaml configuration. A missing config file is not
// an error; defaults and environment values apply instead.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	applyDefaults(&cfg)

	// Load sensitive values from environment
	cfg.Store.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "clubsched"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite"
	}
	if cfg.Store.Driver == "sqlite" && cfg.Store.Filename == "" {
		cfg.Store.Filename = "data/clubsched.db"
	}
	if cfg.Jobs.ScheduleAudit == "" {
		cfg.Jobs.ScheduleAudit = defaultScheduleAuditCron
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Filename == "" {
			return fmt.Errorf("store filename is required for sqlite")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store redis_addr is required for redis")
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}

	// The scheduler consumes the same expression at startup; fail fast here.
	if _, err := cron.ParseStandard(c.Jobs.ScheduleAudit); err != nil {
		return fmt.Errorf("invalid schedule_audit cron expression %q: %w", c.Jobs.ScheduleAudit, err)
	}

	return nil
}

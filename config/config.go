// Package config loads the service configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"incomepredict/logger"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Model struct {
		Path      string `yaml:"path"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"model"`
	Log logger.Config `yaml:"log"`
}

// Load reads path, applies .env and INCOME_* overrides, fills defaults and validates.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("INCOME_MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("INCOME_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("INCOME_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("INCOME_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INCOME_HTTP_PORT: %w", err)
		}
		cfg.Http.Port = port
	}
	if v := os.Getenv("INCOME_CACHE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INCOME_CACHE_SIZE: %w", err)
		}
		cfg.Model.CacheSize = size
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Http.Port == 0 {
		cfg.Http.Port = 8080
	}
	if cfg.Http.Timeout == 0 {
		cfg.Http.Timeout = 30 * time.Second
	}
	if cfg.Http.MaxBodyBytes == 0 {
		cfg.Http.MaxBodyBytes = 1 << 16
	}
	if len(cfg.Http.AllowedOrigins) == 0 {
		cfg.Http.AllowedOrigins = []string{"*"}
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "models/income_model.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

func validate(cfg *Config) error {
	if cfg.Http.Port < 1 || cfg.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", cfg.Http.Port)
	}
	if cfg.Http.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	if cfg.Model.CacheSize < 0 {
		return errors.New("model.cache_size must not be negative")
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", cfg.Log.Format)
	}
	return nil
}

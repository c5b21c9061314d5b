package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the whole service configuration. It is read from the YAML file
// named by CONFIG_PATH when set, otherwise from the environment alone;
// environment variables override file values either way.
type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
	Widget WidgetConfig `yaml:"widget"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"EXCHANGE_API_URL" env-default:"https://v6.exchangerate-api.com/v6"`
	Key     string        `yaml:"key" env:"EXCHANGE_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"EXCHANGE_API_TIMEOUT" env-default:"10s"`
}

type WidgetConfig struct {
	BaseCurrency  string        `yaml:"base_currency" env:"WIDGET_BASE_CURRENCY" env-default:"USD"`
	DefaultFrom   string        `yaml:"default_from" env:"WIDGET_DEFAULT_FROM" env-default:"USD"`
	DefaultTo     string        `yaml:"default_to" env:"WIDGET_DEFAULT_TO" env-default:"EUR"`
	DecimalPlaces int           `yaml:"decimal_places" env:"WIDGET_DECIMAL_PLACES" env-default:"2"`
	ErrorDisplay  time.Duration `yaml:"error_display" env:"WIDGET_ERROR_DISPLAY" env-default:"5s"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads the configuration, preferring the file at CONFIG_PATH
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads the configuration and exits on failure
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

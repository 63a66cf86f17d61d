package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DBFile     string
	APIBaseURL string
	SocketURL  string
	Timeout    time.Duration
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBFile:     getEnv("SOULFIX_DB", "soulfix.db"),
		APIBaseURL: getEnv("API_BASE_URL", "https://soul-fix-gcrn.onrender.com/api"),
		SocketURL:  getEnv("SOCKET_URL", "wss://soul-fix-gcrn.onrender.com/ws"),
		Timeout:    timeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

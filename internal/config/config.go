package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	ClientURLs    []string
	DatabaseURL   string
	CountdownTime int
	MatchPlayTime int
	LogLevel      string
	AppEnv        string
}

// Load reads the environment, after loading a .env file when one exists.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	port, err := getEnvInt("PORT", 3001)
	if err != nil {
		return Config{}, err
	}
	countdown, err := getEnvInt("COUNTDOWN_TIME", 3)
	if err != nil {
		return Config{}, err
	}
	playTime, err := getEnvInt("MATCH_PLAY_TIME", 60)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:          port,
		ClientURLs:    splitList(getEnv("CLIENT_URL", "*")),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CountdownTime: countdown,
		MatchPlayTime: playTime,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AppEnv:        getEnv("APP_ENV", "production"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.CountdownTime <= 0 {
		return fmt.Errorf("COUNTDOWN_TIME must be positive, got %d", c.CountdownTime)
	}
	if c.MatchPlayTime <= 0 {
		return fmt.Errorf("MATCH_PLAY_TIME must be positive, got %d", c.MatchPlayTime)
	}
	if len(c.ClientURLs) == 0 {
		return errors.New("CLIENT_URL must name at least one origin")
	}
	return nil
}

func (c Config) IsLocal() bool {
	return c.AppEnv == "local"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

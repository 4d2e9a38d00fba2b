package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const EnvProduction = "production"

type Config struct {
	Port        string
	BaseURL     string
	DatabaseURL string
	RedisURL    string
	LogFile     string
	AppEnv      string
	JWTSecret   string
	BcryptCost  int
	Email       EmailConfig
}

func (c Config) Production() bool {
	return c.AppEnv == EnvProduction
}

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Secure   bool
}

func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.Port != 0 && e.From != ""
}

func Load() (Config, error) {
	clean := func(val string) string {
		return strings.Trim(val, "\"' \t\r\n")
	}

	rawPort := strings.Trim(getenvDefault("EMAIL_SERVER_PORT", "587"), "\"' ")
	emailPort, err := strconv.Atoi(rawPort)
	if err != nil {
		emailPort = 587
	}

	bcryptCost, err := strconv.Atoi(getenvDefault("BCRYPT_COST", "10"))
	if err != nil {
		bcryptCost = 10
	}

	cfg := Config{
		Port:        getenvDefault("PORT", "8080"),
		BaseURL:     getenvDefault("APP_BASE_URL", "http://localhost:3000"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getenvDefault("REDIS_URL", "redis://localhost:6379"),
		LogFile:     getenvDefault("LOG_FILE", "logs/server.log"),
		AppEnv:      getenvDefault("APP_ENV", "development"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		BcryptCost:  bcryptCost,
	}

	cfg.Email = EmailConfig{
		Host:     clean(os.Getenv("EMAIL_SERVER_HOST")),
		Port:     emailPort,
		Username: clean(os.Getenv("EMAIL_SERVER_USER")),
		Password: clean(os.Getenv("EMAIL_SERVER_PASSWORD")),
		From:     clean(os.Getenv("EMAIL_FROM")),
		Secure:   parseBool(os.Getenv("EMAIL_SERVER_SECURE")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Production() && !cfg.Email.Enabled() {
		return Config{}, fmt.Errorf("email delivery must be configured in production")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func parseBool(val string) bool {
	if val == "" {
		return false
	}
	val = strings.ToLower(strings.Trim(val, "\"' "))
	return val == "1" || val == "true" || val == "yes"
}

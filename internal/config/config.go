package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration, loaded from the environment.
type Config struct {
	ServerAddress string
	Environment   string
	LogLevel      string

	MySQLDSN  string
	RedisAddr string

	// Authentication
	JWTSecret string

	// Payment provider
	CheckoutBaseURL       string
	CheckoutAPIKey        string
	CheckoutWebhookSecret string
	CheckoutSuccessURL    string
	CheckoutCancelURL     string

	// Transactional mail provider
	MailBaseURL string
	MailAPIKey  string
	MailFrom    string

	// Comma-separated list of allowed cross-origin hosts.
	AllowedOrigins []string

	MailWorkers   int
	MailQueueSize int
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		MySQLDSN:  getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/gocart?parseTime=true"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CheckoutBaseURL:       getEnv("CHECKOUT_BASE_URL", "https://api.checkout.example.com"),
		CheckoutAPIKey:        getEnv("CHECKOUT_API_KEY", ""),
		CheckoutWebhookSecret: getEnv("CHECKOUT_WEBHOOK_SECRET", ""),
		CheckoutSuccessURL:    getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CheckoutCancelURL:     getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),

		MailBaseURL: getEnv("MAIL_BASE_URL", "https://api.mail.example.com"),
		MailAPIKey:  getEnv("MAIL_API_KEY", ""),
		MailFrom:    getEnv("MAIL_FROM", "orders@gocart.example.com"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		MailWorkers:   getEnvInt("MAIL_WORKERS", 2),
		MailQueueSize: getEnvInt("MAIL_QUEUE_SIZE", 256),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.CheckoutAPIKey == "" || c.CheckoutWebhookSecret == "" {
			return fmt.Errorf("CHECKOUT_API_KEY and CHECKOUT_WEBHOOK_SECRET are required in production")
		}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

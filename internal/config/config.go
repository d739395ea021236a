package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration,
// populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Webhook  WebhookConfig
	Bill     BillConfig
	Cashfree CashfreeConfig
	Razorpay RazorpayConfig
	Runpaisa RunpaisaConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// WebhookConfig controls inbound webhook verification.
type WebhookConfig struct {
	// TimestampSkew is the maximum age of a timestamped webhook before it
	// is rejected as a potential replay, independent of signature validity.
	TimestampSkew time.Duration
}

// BillConfig controls the bill fetch cache.
type BillConfig struct {
	CacheTTL time.Duration
}

// =====================================================
// GATEWAY CONFIGURATION
// =====================================================

type CashfreeConfig struct {
	ClientID      string
	WebhookSecret string // Secret key for HMAC-SHA256
	APIURL        string
}

type RazorpayConfig struct {
	KeyID         string
	WebhookSecret string // Secret key for HMAC-SHA256
	APIURL        string
}

type RunpaisaConfig struct {
	MerchantID   string
	SharedSecret string // Compared against the secret field in the payload
	PublicKeyPEM string // Optional RSA public key for signed payloads
	APIURL       string
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "PayHub API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "payhub"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Webhook: WebhookConfig{
			TimestampSkew: getEnvDuration("WEBHOOK_TIMESTAMP_SKEW", 5*time.Minute),
		},
		Bill: BillConfig{
			CacheTTL: getEnvDuration("BILL_CACHE_TTL", 15*time.Minute),
		},
		Cashfree: CashfreeConfig{
			ClientID:      getEnv("CASHFREE_CLIENT_ID", ""),
			WebhookSecret: getEnv("CASHFREE_WEBHOOK_SECRET", ""),
			APIURL:        getEnv("CASHFREE_API_URL", "https://sandbox.cashfree.com"),
		},
		Razorpay: RazorpayConfig{
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
			APIURL:        getEnv("RAZORPAY_API_URL", "https://api.razorpay.com"),
		},
		Runpaisa: RunpaisaConfig{
			MerchantID:   getEnv("RUNPAISA_MERCHANT_ID", ""),
			SharedSecret: getEnv("RUNPAISA_SHARED_SECRET", ""),
			PublicKeyPEM: getEnv("RUNPAISA_PUBLIC_KEY", ""),
			APIURL:       getEnv("RUNPAISA_API_URL", "https://api.runpaisa.com"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}

		// Gateway secrets are optional per gateway; warn so a missing
		// secret does not silently reject every webhook from that gateway.
		if c.Cashfree.WebhookSecret == "" {
			fmt.Println("WARNING: Cashfree webhook secret not set - Cashfree webhooks will be rejected")
		}
		if c.Razorpay.WebhookSecret == "" {
			fmt.Println("WARNING: Razorpay webhook secret not set - Razorpay webhooks will be rejected")
		}
		if c.Runpaisa.SharedSecret == "" {
			fmt.Println("WARNING: Runpaisa shared secret not set - Runpaisa webhooks will be rejected")
		}
	}

	if c.Webhook.TimestampSkew <= 0 {
		return fmt.Errorf("WEBHOOK_TIMESTAMP_SKEW must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

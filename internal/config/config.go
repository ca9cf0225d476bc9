package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Gateway  GatewayConfig
	Merchant MerchantConfig
	Logger   LoggerConfig
}

// GatewayConfig holds Realex gateway configuration
type GatewayConfig struct {
	URL      string // standard processing endpoint (empty keeps the default)
	VaultURL string // tokenization endpoint (empty keeps the default)
	Timeout  int    // request timeout in seconds (default: 30)
}

// MerchantConfig holds the merchant account credentials
type MerchantConfig struct {
	Login        string // merchant id
	Secret       string // shared signing secret
	Account      string // optional sub-account
	RebateSecret string // optional secondary secret for refunds/credits
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			URL:      getEnv("REALEX_URL", ""),
			VaultURL: getEnv("REALEX_VAULT_URL", ""),
			Timeout:  getEnvAsInt("REALEX_TIMEOUT", 30),
		},
		Merchant: MerchantConfig{
			Login:        getEnv("REALEX_MERCHANT_ID", ""),
			Secret:       getEnv("REALEX_SECRET", ""),
			Account:      getEnv("REALEX_ACCOUNT", ""),
			RebateSecret: getEnv("REALEX_REBATE_SECRET", ""),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Merchant.Login == "" {
		return nil, fmt.Errorf("REALEX_MERCHANT_ID is required")
	}
	if cfg.Merchant.Secret == "" {
		return nil, fmt.Errorf("REALEX_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

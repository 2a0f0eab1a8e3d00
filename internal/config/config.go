package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	UsersTable     string

	JWTSigningKey string // empty means a random per-process key is generated
	JWTExpiryDays int    // 0 disables token expiry

	PlaidClientID   string
	PlaidSecret     string
	PlaidBaseURL    string
	PlaidClientName string

	TransactionsStartDate string // YYYY-MM-DD, start of the transaction fetch window

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UsersTable:     getEnv("DYNAMO_TABLE_USERS", "users"),

		JWTSigningKey: getEnv("JWT_SIGNING_KEY", ""),
		JWTExpiryDays: getEnvInt("JWT_EXPIRY_DAYS", 0),

		PlaidClientID:   getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:     getEnv("PLAID_SECRET", ""),
		PlaidBaseURL:    getEnv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
		PlaidClientName: getEnv("PLAID_CLIENT_NAME", "finlink"),

		TransactionsStartDate: getEnv("TRANSACTIONS_START_DATE", "2018-01-01"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

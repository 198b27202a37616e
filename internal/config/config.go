package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Security   SecurityConfig
	Payment    PaymentConfig
	Onboarding OnboardingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	CookieDomain   string
	SecureCookies  bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// PaymentConfig holds payment gateway settings
type PaymentConfig struct {
	GatewayBaseURL string
	PublicKey      string
	SecretKey      string
	Currency       string
	RequestTimeout time.Duration
	AttemptTTL     time.Duration
	TxRefPrefix    string
	Title          string
	LogoURL        string
}

// OnboardingConfig holds wizard settings
type OnboardingConfig struct {
	CelebrationDwell time.Duration
	StateTTL         time.Duration
	SubmitLockTTL    time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CookieDomain:   getEnv("COOKIE_DOMAIN", ""),
			SecureCookies:  getEnvAsBool("COOKIE_SECURE", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "collabriss"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
		Payment: PaymentConfig{
			GatewayBaseURL: getEnv("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com"),
			PublicKey:      getEnv("FLUTTERWAVE_PUBLIC_KEY", ""),
			SecretKey:      getEnv("FLUTTERWAVE_SECRET_KEY", ""),
			Currency:       getEnv("PAYMENT_CURRENCY", "NGN"),
			RequestTimeout: getEnvAsDuration("PAYMENT_REQUEST_TIMEOUT", 15*time.Second),
			AttemptTTL:     getEnvAsDuration("CHECKOUT_ATTEMPT_TTL", 30*time.Minute),
			TxRefPrefix:    getEnv("PAYMENT_TX_REF_PREFIX", "collabriss"),
			Title:          getEnv("PAYMENT_TITLE", "Inovareun - Collabriss"),
			LogoURL:        getEnv("PAYMENT_LOGO_URL", "/logo.png"),
		},
		Onboarding: OnboardingConfig{
			CelebrationDwell: getEnvAsDuration("ONBOARDING_CELEBRATION_DWELL", 3*time.Second),
			StateTTL:         getEnvAsDuration("ONBOARDING_STATE_TTL", 24*time.Hour),
			SubmitLockTTL:    getEnvAsDuration("ONBOARDING_SUBMIT_LOCK_TTL", 30*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	AuthCookieSecure bool
	BootstrapAdmin   bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	StorageBucket        string
	StorageRegion        string
	StorageEndpoint      string
	StoragePublicBaseURL string
	StorageMedicineDir   string

	RateLimitEnabled  bool
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	LoginRatePerSec   float64
	LoginBurst        int
	ContactRatePerSec float64
	ContactBurst      int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "pharmindex"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		AuthCookieSecure: authCookieSecure,
		BootstrapAdmin:   getenvBool("BOOTSTRAP_ADMIN", true),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "pharmindex"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),

		StorageBucket:        getenv("STORAGE_BUCKET", "brands"),
		StorageRegion:        getenv("STORAGE_REGION", "us-east-1"),
		StorageEndpoint:      strings.TrimSpace(getenv("STORAGE_ENDPOINT", "")),
		StoragePublicBaseURL: strings.TrimRight(getenv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
		StorageMedicineDir:   getenv("STORAGE_MEDICINE_DIR", "medicine"),

		RateLimitEnabled:  getenvBool("RATE_LIMIT_ENABLED", false),
		RedisAddr:         strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getenvInt("REDIS_DB", 0),
		LoginRatePerSec:   getenvFloat("RATE_LIMIT_LOGIN_RATE", 1),
		LoginBurst:        getenvInt("RATE_LIMIT_LOGIN_BURST", 5),
		ContactRatePerSec: getenvFloat("RATE_LIMIT_CONTACT_RATE", 0.5),
		ContactBurst:      getenvInt("RATE_LIMIT_CONTACT_BURST", 3),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

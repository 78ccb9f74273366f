package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Dataset
	DatasetPath  string // empty selects the embedded dataset
	WatchDataset bool

	// Derivation
	LayoutAlgorithm string
	ViewCacheTTL    int // seconds, 0 disables
	ViewCacheSize   int

	// Chat
	GeminiAPIKey        string
	GeminiModel         string
	ChatMaxOutputTokens int
	ChatTemperature     float64
	StoreDriver         string
	SQLitePath          string
	ChatTable           string
	ChatTTL             time.Duration
	ChatLockLease       time.Duration

	// AWS configuration
	AWSRegion    string
	EventBusName string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics  bool
	EnableTracing  bool
	EnableCORS     bool
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables, first seeding
// them from ENV_FILE (default ".env") when that file exists. Variables
// already set in the environment win over the file.
func LoadConfig() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	lambdaName := getEnv("AWS_LAMBDA_FUNCTION_NAME", "")
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		DatasetPath:  getEnv("DATASET_PATH", ""),
		WatchDataset: getEnvBool("WATCH_DATASET", false),

		LayoutAlgorithm: getEnv("LAYOUT_ALGORITHM", "layered"),
		ViewCacheTTL:    getEnvInt("VIEW_CACHE_TTL", 300),
		ViewCacheSize:   getEnvInt("VIEW_CACHE_SIZE", 1024),

		GeminiAPIKey:        getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ChatMaxOutputTokens: getEnvInt("CHAT_MAX_OUTPUT_TOKENS", 2000),
		ChatTemperature:     getEnvFloat("CHAT_TEMPERATURE", 0.7),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		SQLitePath:          getEnv("SQLITE_PATH", "techtree-chat.db"),
		ChatTable:           getEnv("CHAT_TABLE", ""),
		ChatTTL:             time.Duration(getEnvInt("CHAT_TTL_HOURS", 24*30)) * time.Hour,
		ChatLockLease:       time.Duration(getEnvInt("CHAT_LOCK_LEASE_SECONDS", 90)) * time.Second,

		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		EventBusName: getEnv("EVENT_BUS_NAME", ""),

		IsLambda:           getEnvBool("IS_LAMBDA", lambdaName != ""),
		LambdaFunctionName: lambdaName,

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "techtree-backend"),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		EnableMetrics:  getEnvBool("ENABLE_METRICS", true),
		EnableTracing:  getEnvBool("ENABLE_TRACING", false),
		EnableCORS:     getEnvBool("ENABLE_CORS", true),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks that settings are consistent. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch c.LayoutAlgorithm {
	case "layered", "force":
	default:
		errs = append(errs, fmt.Errorf("LAYOUT_ALGORITHM must be layered or force, got %q", c.LayoutAlgorithm))
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	case StoreDynamoDB:
		if c.ChatTable == "" {
			errs = append(errs, errors.New("CHAT_TABLE is required for the dynamodb store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be memory, sqlite or dynamodb, got %q", c.StoreDriver))
	}

	if c.ChatMaxOutputTokens <= 0 {
		errs = append(errs, errors.New("CHAT_MAX_OUTPUT_TOKENS must be positive"))
	}
	if c.ChatTemperature < 0 || c.ChatTemperature > 2 {
		errs = append(errs, errors.New("CHAT_TEMPERATURE must be between 0 and 2"))
	}
	if c.ViewCacheTTL < 0 {
		errs = append(errs, errors.New("VIEW_CACHE_TTL cannot be negative"))
	}
	if c.WatchDataset && c.DatasetPath == "" {
		errs = append(errs, errors.New("WATCH_DATASET requires DATASET_PATH"))
	}
	if c.IsProduction() && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}

	return errors.Join(errs...)
}

// ChatEnabled reports whether a model credential is configured.
func (c *Config) ChatEnabled() bool {
	return c.GeminiAPIKey != ""
}

// AuthEnabled reports whether bearer tokens are required.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
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
	return out
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	StaticFilesPath string
	ItemsPath       string
	CollectionsPath string
	TextsPath       string

	// GatePassSecret signs the short-lived token handed out on success and
	// checked again by the redirect endpoint.
	GatePassSecret string
	GatePassTTL    time.Duration

	RoundCount          int
	DistractorsPerRound int
	ReferenceSetSize    int
	RoundDuration       time.Duration

	SessionTTL time.Duration

	// DefaultSuccessURL is the fallback destination when a collection's
	// redirect env var is unset.
	DefaultSuccessURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./knowledgegate.db"),
		DatabaseURL:     getEnv("DB_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		ItemsPath:       getEnv("ITEMS_PATH", "./data/items.json"),
		CollectionsPath: getEnv("COLLECTIONS_PATH", ""),
		TextsPath:       getEnv("TEXTS_PATH", "./data/texts"),

		GatePassSecret: getEnv("GATE_PASS_SECRET", ""),
		GatePassTTL:    getEnvDuration("GATE_PASS_TTL", 5*time.Minute),

		RoundCount:          getEnvInt("ROUND_COUNT", 3),
		DistractorsPerRound: getEnvInt("DISTRACTORS_PER_ROUND", 5),
		ReferenceSetSize:    getEnvInt("REFERENCE_SET_SIZE", 15),
		RoundDuration:       getEnvDuration("ROUND_DURATION", 60*time.Second),

		SessionTTL: getEnvDuration("SESSION_TTL", time.Hour),

		DefaultSuccessURL: getEnv("DEFAULT_SUCCESS_URL", ""),
	}
}

// RedirectURL resolves the gated destination for a collection from the
// environment. The URL never lives in static config; only the variable name
// does.
func (c *Config) RedirectURL(redirectURLKey string) string {
	if redirectURLKey == "" {
		return c.DefaultSuccessURL
	}
	if url := os.Getenv(redirectURLKey); url != "" {
		return url
	}
	return c.DefaultSuccessURL
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

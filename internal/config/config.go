package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything read from the environment at process start.
type Config struct {
	Env               string
	AppSecret         string
	AdminPasswordHash string
	DatabaseURL       string
	JWTExpiry         time.Duration
	Port              string

	// Embedding encoder settings. The model is fixed for the lifetime of
	// the process; changing it invalidates every stored vector.
	OllamaHost     string
	EmbeddingModel string
	EmbeddingDim   int
	Normalize      bool

	IngestBatchSize int
	EmbedBatchSize  int
}

// Load reads the configuration from environment variables.
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "72"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "filmrec")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", "your-secret-key-change-in-production")
	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("[Config] WARNING: production is running with the default APP_SECRET, set a real one")
	}

	embedDim, _ := strconv.Atoi(getEnv("EMBEDDING_DIM", "768"))
	ingestBatch, _ := strconv.Atoi(getEnv("INGEST_BATCH_SIZE", "1000"))
	embedBatch, _ := strconv.Atoi(getEnv("EMBED_BATCH_SIZE", "32"))

	return &Config{
		Env:               getEnv("APP_ENV", "development"),
		AppSecret:         appSecret,
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		DatabaseURL:       dbURL,
		JWTExpiry:         time.Duration(expiryHours) * time.Hour,
		Port:              getEnv("PORT", "5005"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		EmbeddingDim:      embedDim,
		Normalize:         getEnv("EMBEDDING_NORMALIZE", "true") != "false",
		IngestBatchSize:   ingestBatch,
		EmbedBatchSize:    embedBatch,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

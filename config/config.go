package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Vector cache
	CacheTTLSeconds int

	// Vector index (Qdrant REST)
	QdrantHost string
	QdrantPort string

	// LLM (OpenAI-compatible endpoint)
	LLMBaseURL        string
	LLMAPIKey         string
	LLMChatModel      string
	LLMEmbeddingModel string
	LLMEmbeddingDim   int
}

// Load builds a Config from environment variables with development
// defaults. A .env file is picked up by godotenv in main before this runs.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "smartfridge"),
		DBPassword: getEnv("DB_PASSWORD", "smartfridge"),
		DBName:     getEnv("DB_NAME", "smartfridge"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CacheTTLSeconds: getEnvInt("VECTOR_CACHE_TTL", 3600),

		QdrantHost: getEnv("QDRANT_HOST", "localhost"),
		QdrantPort: getEnv("QDRANT_PORT", "6333"),

		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		LLMChatModel:      getEnv("LLM_CHAT_MODEL", "gpt-4o-mini"),
		LLMEmbeddingModel: getEnv("LLM_EMBEDDING_MODEL", "text-embedding-3-small"),
		LLMEmbeddingDim:   getEnvInt("LLM_EMBEDDING_DIM", 1536),
	}
}

// IsProduction reports whether ENV selects the production profile.
func IsProduction() bool {
	return os.Getenv("ENV") == "production"
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

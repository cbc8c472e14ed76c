package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, 3600, cfg.CacheTTLSeconds)
	assert.Equal(t, "6333", cfg.QdrantPort)
	assert.Equal(t, 1536, cfg.LLMEmbeddingDim)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("VECTOR_CACHE_TTL", "120")
	t.Setenv("LLM_EMBEDDING_DIM", "768")
	t.Setenv("LLM_EMBEDDING_MODEL", "nomic-embed-text")

	cfg := Load()
	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, 120, cfg.CacheTTLSeconds)
	assert.Equal(t, 768, cfg.LLMEmbeddingDim)
	assert.Equal(t, "nomic-embed-text", cfg.LLMEmbeddingModel)
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("VECTOR_CACHE_TTL", "not-a-number")

	cfg := Load()
	assert.Equal(t, 3600, cfg.CacheTTLSeconds)
}

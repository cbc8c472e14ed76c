package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const recipeInstructionsLimit = 500

// EmbeddingService generates dense embeddings through an OpenAI-compatible
// endpoint. The vector dimension is fixed per deployment by the configured
// model; callers treat it as opaque but consistent.
type EmbeddingService struct {
	client    *openai.Client
	model     string
	dimension int
	available bool
	logger    *zap.SugaredLogger
}

// NewEmbeddingService probes the endpoint once at startup; an unreachable
// endpoint leaves the service constructed but unavailable.
func NewEmbeddingService(baseURL, apiKey, model string, dimension int, logger *zap.SugaredLogger) *EmbeddingService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	s := &EmbeddingService{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		dimension: dimension,
		logger:    logger,
	}
	s.available = s.probe()
	if !s.available {
		logger.Warnw("embedding endpoint unreachable, semantic search degraded", "baseURL", baseURL)
	}
	return s
}

func (s *EmbeddingService) probe() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.client.ListModels(ctx)
	return err == nil
}

// Available reports the startup probe result. Readers tolerate staleness.
func (s *EmbeddingService) Available() bool { return s.available }

func (s *EmbeddingService) ModelVersion() string { return s.model }

func (s *EmbeddingService) Dimension() int { return s.dimension }

// GenerateEmbedding embeds the given text. Blank input yields no embedding.
func (s *EmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidArgument)
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}
	return resp.Data[0].Embedding, nil
}

// BuildRecipeText composes the canonical searchable text for a recipe,
// omitting empty segments and eliding instructions past 500 characters.
func (s *EmbeddingService) BuildRecipeText(name string, ingredients []string, cuisineType, instructions string) string {
	var sb strings.Builder
	sb.WriteString("Recipe: ")
	sb.WriteString(name)
	sb.WriteString(". ")

	if cuisineType != "" {
		sb.WriteString("Cuisine: ")
		sb.WriteString(cuisineType)
		sb.WriteString(". ")
	}
	if len(ingredients) > 0 {
		sb.WriteString("Ingredients: ")
		sb.WriteString(strings.Join(ingredients, ", "))
		sb.WriteString(". ")
	}
	if instructions != "" {
		if len(instructions) > recipeInstructionsLimit {
			instructions = instructions[:recipeInstructionsLimit] + "..."
		}
		sb.WriteString("Instructions: ")
		sb.WriteString(instructions)
	}
	return sb.String()
}

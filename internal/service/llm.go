package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LLMService handles chat-completion interactions with an OpenAI-compatible
// API: alias generation, substitution suggestions and recipe-text parsing.
// All responses are requested as JSON objects and parsed defensively.
type LLMService struct {
	client *openai.Client
	model  string
	redis  *redis.Client
	logger *zap.SugaredLogger
}

// NewLLMService creates the chat client. redisClient may be nil; parsed
// recipe drafts are then not persisted.
func NewLLMService(baseURL, apiKey, model string, redisClient *redis.Client, logger *zap.SugaredLogger) *LLMService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &LLMService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		redis:  redisClient,
		logger: logger,
	}
}

func (s *LLMService) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateIngredientAliases asks for variant spellings of an ingredient and
// returns the raw list; the resolver filters and persists it.
func (s *LLMService) GenerateIngredientAliases(ctx context.Context, ingredient string) ([]string, error) {
	system := `You are a culinary expert. For the given ingredient, provide common alternative names, varieties, and related terms that could be used interchangeably in recipes.

Rules:
- Include common abbreviations
- Include regional name variations
- Include variety names (e.g., roma tomato, cherry tomato for tomato)
- Include singular/plural forms
- Do NOT include completely different ingredients

Respond with JSON like {"aliases": ["cherry tomato", "roma tomato", "tomatoes"]}.`

	content, err := s.complete(ctx, system, "Ingredient: "+ingredient)
	if err != nil {
		return nil, err
	}

	aliases, err := parseStringArray(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse alias response: %w", err)
	}
	return aliases, nil
}

// SuggestSubstitutions proposes ranked replacements for a missing
// ingredient, conditioned on cuisine, co-ingredients and the pantry.
func (s *LLMService) SuggestSubstitutions(ctx context.Context, req SubstitutionRequest) ([]SubstitutionCandidate, error) {
	system := `You are a culinary expert suggesting ingredient substitutions. Prefer substitutes the user already has. Respond with JSON like:
{"substitutes": [{"ingredient": "...", "confidence": 0.9, "reasoning": "..."}]}
Confidence is a number between 0 and 1.`

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	content, err := s.complete(ctx, system, string(payload))
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Substitutes []SubstitutionCandidate `json:"substitutes"`
	}
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		// Some models answer with a bare array.
		var bare []SubstitutionCandidate
		if err2 := json.Unmarshal([]byte(content), &bare); err2 == nil {
			return bare, nil
		}
		return nil, fmt.Errorf("failed to parse substitution response: %w", err)
	}
	return wrapper.Substitutes, nil
}

// ParsedRecipe is the structured result of parsing free recipe text.
type ParsedRecipe struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Ingredients  []string  `json:"ingredients"`
	Seasonings   []string  `json:"seasonings"`
	CuisineType  string    `json:"cuisineType"`
	Instructions string    `json:"instructions"`
}

// ParseRecipeText extracts a structured recipe from free text and stores it
// as a 24h draft so the client can review before submitting.
func (s *LLMService) ParseRecipeText(ctx context.Context, text string) (*ParsedRecipe, error) {
	system := `You are a recipe parser. Extract a structured recipe from the user's text. Respond with JSON:
{"name": "...", "ingredients": ["..."], "seasonings": ["..."], "cuisineType": "ONE OF: CHINESE, JAPANESE, ITALIAN, MEXICAN, INDIAN, THAI, KOREAN, FRENCH, AMERICAN, MEDITERRANEAN, MIDDLE_EASTERN, OTHER", "instructions": "..."}
Seasonings are salt, pepper, spices and the like; everything substantial goes in ingredients. Use lowercase ingredient names.`

	content, err := s.complete(ctx, system, text)
	if err != nil {
		return nil, err
	}

	var parsed ParsedRecipe
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}
	if strings.TrimSpace(parsed.Name) == "" || len(parsed.Ingredients) == 0 {
		return nil, fmt.Errorf("parsed recipe is missing name or ingredients")
	}

	parsed.ID = uuid.New().String()
	parsed.CreatedAt = time.Now()

	if s.redis != nil {
		data, err := json.Marshal(parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal draft: %w", err)
		}
		key := "recipe:draft:" + parsed.ID
		if err := s.redis.Set(ctx, key, data, 24*time.Hour).Err(); err != nil {
			s.logger.Errorw("failed to save recipe draft", "id", parsed.ID, "error", err)
		}
	}

	return &parsed, nil
}

// GetParsedRecipe retrieves a stored draft by id.
func (s *LLMService) GetParsedRecipe(ctx context.Context, id string) (*ParsedRecipe, error) {
	if s.redis == nil {
		return nil, ErrNotFound
	}
	data, err := s.redis.Get(ctx, "recipe:draft:"+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	var parsed ParsedRecipe
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &parsed, nil
}

// parseStringArray accepts either a bare JSON array of strings or an object
// whose first array-valued field holds the strings.
func parseStringArray(content string) ([]string, error) {
	content = strings.TrimSpace(content)

	var bare []string
	if err := json.Unmarshal([]byte(content), &bare); err == nil {
		return bare, nil
	}

	dec := json.NewDecoder(strings.NewReader(content))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("response is neither a JSON array nor an object")
	}
	for dec.More() {
		var raw json.RawMessage
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		var arr []string
		if err := json.Unmarshal(raw, &arr); err == nil {
			return arr, nil
		}
	}
	return nil, fmt.Errorf("no string array found in response")
}

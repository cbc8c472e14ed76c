package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/models"
)

// SubstitutionService diffs a recipe's requirements against the pantry and
// asks the LLM for replacements, preferring what is already on hand.
type SubstitutionService struct {
	store    *RecipeService
	resolver *IngredientResolver
	provider SubstitutionProvider
	logger   *zap.SugaredLogger
}

// NewSubstitutionService creates the planner. provider may be nil when no
// LLM is configured; suggestions then come back empty.
func NewSubstitutionService(store *RecipeService, resolver *IngredientResolver, provider SubstitutionProvider, logger *zap.SugaredLogger) *SubstitutionService {
	return &SubstitutionService{store: store, resolver: resolver, provider: provider, logger: logger}
}

// FindMissingIngredients reports which non-seasoning requirements the
// pantry cannot cover after canonicalization on both sides. Zero
// requirements means full coverage.
func (s *SubstitutionService) FindMissingIngredients(ctx context.Context, recipeName string) (*models.MissingIngredientsReport, error) {
	required, err := s.store.GetNonSeasoningIngredients(ctx, recipeName)
	if err != nil {
		return nil, err
	}
	if len(required) == 0 {
		// Distinguish "no requirements" from "no such recipe".
		if _, err := s.store.GetRecipeDetails(ctx, recipeName); err != nil {
			return nil, err
		}
	}

	supplies, err := s.store.GetSupplyNames(ctx)
	if err != nil {
		return nil, err
	}
	pantry := s.resolver.ResolveToSet(supplies)

	missing := []string{}
	for _, ingredient := range required {
		if _, ok := pantry[ingredient]; ok {
			continue
		}
		if _, ok := pantry[s.resolver.Resolve(ingredient)]; ok {
			continue
		}
		missing = append(missing, ingredient)
	}

	total := len(required)
	coverage := 100.0
	if total > 0 {
		coverage = float64(total-len(missing)) * 100.0 / float64(total)
	}

	return &models.MissingIngredientsReport{
		RecipeName:         recipeName,
		MissingIngredients: missing,
		TotalRequired:      total,
		CoveragePercent:    coverage,
	}, nil
}

// GetSubstitutions proposes replacements for every missing ingredient of a
// recipe. A failed LLM call yields an empty list for that ingredient only.
func (s *SubstitutionService) GetSubstitutions(ctx context.Context, recipeName string) (map[string][]models.SubstitutionSuggestion, error) {
	report, err := s.FindMissingIngredients(ctx, recipeName)
	if err != nil {
		return nil, err
	}
	if len(report.MissingIngredients) == 0 {
		return map[string][]models.SubstitutionSuggestion{}, nil
	}

	details, err := s.store.GetRecipeDetails(ctx, recipeName)
	if err != nil {
		return nil, err
	}
	supplies, err := s.store.GetSupplyNames(ctx)
	if err != nil {
		return nil, err
	}
	pantry := s.resolver.ResolveToSet(supplies)

	substitutions := make(map[string][]models.SubstitutionSuggestion, len(report.MissingIngredients))
	for _, missing := range report.MissingIngredients {
		substitutions[missing] = s.suggestFor(ctx, missing, details, supplies, pantry)
	}
	return substitutions, nil
}

func (s *SubstitutionService) suggestFor(
	ctx context.Context,
	missing string,
	details *models.RecipeDetails,
	supplies []string,
	pantry map[string]struct{},
) []models.SubstitutionSuggestion {
	if s.provider == nil {
		return []models.SubstitutionSuggestion{}
	}

	candidates, err := s.provider.SuggestSubstitutions(ctx, SubstitutionRequest{
		Ingredient:        missing,
		Cuisine:           details.CuisineType,
		RecipeIngredients: details.Ingredients,
		FridgeSupplies:    supplies,
	})
	if err != nil {
		s.logger.Errorw("failed to get substitutions", "ingredient", missing, "error", err)
		return []models.SubstitutionSuggestion{}
	}

	suggestions := make([]models.SubstitutionSuggestion, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Ingredient == "" {
			continue
		}
		_, inFridge := pantry[candidate.Ingredient]
		if !inFridge {
			_, inFridge = pantry[s.resolver.Resolve(candidate.Ingredient)]
		}
		suggestions = append(suggestions, models.SubstitutionSuggestion{
			OriginalIngredient: missing,
			Substitute:         candidate.Ingredient,
			InFridge:           inFridge,
			Confidence:         clampConfidence(candidate.Confidence),
			Reasoning:          candidate.Reasoning,
		})
	}
	return suggestions
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

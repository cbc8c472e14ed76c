package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/smartfridge-backend/internal/models"
)

// IngredientResolver maps ingredient spellings to canonical tokens via the
// alias table. Unknown tokens resolve to themselves.
type IngredientResolver struct {
	db       *gorm.DB
	aliasGen AliasGenerator
	logger   *zap.SugaredLogger
}

// NewIngredientResolver creates a resolver. aliasGen may be nil when no LLM
// is configured; GenerateAliases then returns an empty list.
func NewIngredientResolver(db *gorm.DB, aliasGen AliasGenerator, logger *zap.SugaredLogger) *IngredientResolver {
	return &IngredientResolver{db: db, aliasGen: aliasGen, logger: logger}
}

// Resolve maps a single token to its canonical form. Precedence: known
// canonical wins over alias match; alias matches pick the highest
// confidence, most recently inserted row. Empty input is returned as-is.
func (r *IngredientResolver) Resolve(ingredient string) string {
	if strings.TrimSpace(ingredient) == "" {
		return ingredient
	}
	normalized := strings.ToLower(strings.TrimSpace(ingredient))

	var canonical string
	err := r.db.Model(&models.IngredientAlias{}).
		Distinct("canonical_name").
		Where("LOWER(canonical_name) = ?", normalized).
		Limit(1).
		Scan(&canonical).Error
	if err == nil && canonical != "" {
		return canonical
	}
	if err != nil {
		r.logger.Errorw("failed to check canonical name", "ingredient", ingredient, "error", err)
	}

	canonical = ""
	err = r.db.Model(&models.IngredientAlias{}).
		Select("canonical_name").
		Where("LOWER(alias) = ?", normalized).
		Order("confidence DESC").Order("created_at DESC").Order("id DESC").
		Limit(1).
		Scan(&canonical).Error
	if err != nil {
		r.logger.Errorw("failed to resolve alias", "ingredient", ingredient, "error", err)
	}
	if canonical != "" {
		return canonical
	}

	return strings.TrimSpace(ingredient)
}

// ResolveAll resolves each entry, preserving order.
func (r *IngredientResolver) ResolveAll(ingredients []string) []string {
	resolved := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		resolved = append(resolved, r.Resolve(ingredient))
	}
	return resolved
}

// ResolveToSet resolves a collection to deduplicated canonicals and merges
// the original spellings back in, so pre-resolution exact matches survive
// alias-table drift.
func (r *IngredientResolver) ResolveToSet(ingredients []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ingredients)*2)
	for _, ingredient := range ingredients {
		set[r.Resolve(ingredient)] = struct{}{}
		set[ingredient] = struct{}{}
	}
	return set
}

// Aliases returns all known aliases for a canonical name, best first.
func (r *IngredientResolver) Aliases(canonicalName string) ([]string, error) {
	var aliases []string
	err := r.db.Model(&models.IngredientAlias{}).
		Select("alias").
		Where("LOWER(canonical_name) = ?", strings.ToLower(strings.TrimSpace(canonicalName))).
		Order("confidence DESC").
		Scan(&aliases).Error
	if err != nil {
		return nil, err
	}
	return aliases, nil
}

// AddAlias upserts a manual alias at full confidence.
func (r *IngredientResolver) AddAlias(canonicalName, alias string) error {
	return r.upsertAlias(canonicalName, alias, 1.0, models.AliasSourceManual)
}

func (r *IngredientResolver) upsertAlias(canonicalName, alias string, confidence float64, source string) error {
	record := models.IngredientAlias{
		CanonicalName: strings.ToLower(strings.TrimSpace(canonicalName)),
		Alias:         strings.ToLower(strings.TrimSpace(alias)),
		Confidence:    confidence,
		Source:        source,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "canonical_name"}, {Name: "alias"}},
		DoUpdates: clause.AssignmentColumns([]string{"confidence", "source", "created_at"}),
	}).Create(&record).Error
}

// GenerateAliases asks the LLM for alias variants of a token, persists them
// at 0.8 confidence and the token itself at 1.0, and returns the generated
// list. LLM failures are logged and yield an empty list.
func (r *IngredientResolver) GenerateAliases(ctx context.Context, ingredient string) []string {
	if r.aliasGen == nil {
		return []string{}
	}
	canonical := strings.ToLower(strings.TrimSpace(ingredient))

	raw, err := r.aliasGen.GenerateIngredientAliases(ctx, canonical)
	if err != nil {
		r.logger.Errorw("failed to generate aliases", "ingredient", ingredient, "error", err)
		return []string{}
	}

	generated := make([]string, 0, len(raw))
	for _, alias := range raw {
		alias = strings.ToLower(strings.TrimSpace(alias))
		if alias == "" || alias == canonical {
			continue
		}
		generated = append(generated, alias)
	}

	for _, alias := range generated {
		if err := r.upsertAlias(canonical, alias, 0.8, models.AliasSourceAIGenerated); err != nil {
			r.logger.Errorw("failed to persist generated alias", "canonical", canonical, "alias", alias, "error", err)
		}
	}
	// Self-row so canonical lookups are uniform.
	if err := r.upsertAlias(canonical, canonical, 1.0, models.AliasSourceAIGenerated); err != nil {
		r.logger.Errorw("failed to persist canonical self-alias", "canonical", canonical, "error", err)
	}

	r.logger.Infow("generated ingredient aliases", "ingredient", canonical, "count", len(generated))
	return generated
}

var seedAliasGroups = map[string][]string{
	"tomato": {
		"tomatoes", "roma tomato", "cherry tomato", "plum tomato",
		"grape tomato", "beefsteak tomato", "vine tomato", "heirloom tomato",
	},
	"onion": {
		"onions", "yellow onion", "white onion", "red onion",
		"sweet onion", "vidalia onion", "shallot", "spring onion",
	},
	"bell pepper": {
		"bell peppers", "red bell pepper", "green bell pepper",
		"yellow bell pepper", "capsicum", "sweet pepper",
	},
	"potato": {
		"potatoes", "russet potato", "yukon gold", "red potato",
		"fingerling potato", "baby potato", "new potato",
	},
	"chicken": {
		"chicken breast", "chicken thigh", "chicken leg", "chicken wing",
		"whole chicken", "boneless chicken", "skinless chicken",
	},
	"beef": {
		"ground beef", "beef steak", "beef chuck", "beef sirloin",
		"stewing beef", "beef brisket", "beef tenderloin",
	},
	"garlic": {
		"garlic clove", "garlic cloves", "minced garlic", "crushed garlic",
		"fresh garlic", "roasted garlic",
	},
}

// SeedCommonAliases bootstraps the alias table with common variant groups.
// Canonical self-rows go in at 1.0, variants at 0.9.
func (r *IngredientResolver) SeedCommonAliases() error {
	for canonical, aliases := range seedAliasGroups {
		if err := r.upsertAlias(canonical, canonical, 1.0, models.AliasSourceSeed); err != nil {
			return err
		}
		for _, alias := range aliases {
			if err := r.upsertAlias(canonical, alias, 0.9, models.AliasSourceSeed); err != nil {
				return err
			}
		}
	}
	r.logger.Info("seeded common ingredient aliases")
	return nil
}

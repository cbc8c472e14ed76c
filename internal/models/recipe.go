package models

import "time"

// FoodItem is the universe of known tokens: ingredients, seasonings and
// recipe names all live here. A recipe is itself a food token so that
// composite recipes can satisfy other recipes.
type FoodItem struct {
	Name string `gorm:"primaryKey;size:255" json:"name"`
}

func (FoodItem) TableName() string { return "food_items" }

// RecipeDependency is one edge of the recipe graph. Position preserves the
// order the ingredients were written in; IsSeasoning excludes the edge from
// cookability.
type RecipeDependency struct {
	RecipeName     string `gorm:"primaryKey;size:255;index" json:"recipe_name"`
	IngredientName string `gorm:"primaryKey;size:255;index" json:"ingredient_name"`
	IsSeasoning    bool   `gorm:"not null;default:false" json:"is_seasoning"`
	Position       int    `gorm:"not null;default:0" json:"position"`
}

func (RecipeDependency) TableName() string { return "recipe_dependencies" }

type RecipeDetail struct {
	RecipeName   string `gorm:"primaryKey;size:255" json:"recipe_name"`
	CuisineType  string `gorm:"size:50" json:"cuisine_type"`
	Instructions string `gorm:"type:text" json:"instructions"`
	ImageURL     string `gorm:"size:512" json:"image_url"`
}

func (RecipeDetail) TableName() string { return "recipe_details" }

// Supply is a pantry item. Quantity is tracked for the fridge view only;
// the retrieval engine treats presence as boolean.
type Supply struct {
	Name      string `gorm:"primaryKey;size:255" json:"name"`
	Quantity  int    `gorm:"not null;default:1" json:"quantity"`
	SortOrder int    `gorm:"not null;default:0" json:"sortOrder"`
}

func (Supply) TableName() string { return "supplies" }

// IngredientAlias maps an alias spelling to its canonical ingredient.
// A canonical name is stored as its own alias with confidence 1.0 so
// lookups are uniform.
type IngredientAlias struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CanonicalName string    `gorm:"size:255;not null;index;uniqueIndex:idx_canonical_alias" json:"canonical_name"`
	Alias         string    `gorm:"size:255;not null;index;uniqueIndex:idx_canonical_alias" json:"alias"`
	Confidence    float64   `gorm:"not null;default:1.0" json:"confidence"`
	Source        string    `gorm:"size:32;not null;default:'manual'" json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

func (IngredientAlias) TableName() string { return "ingredient_aliases" }

// Alias sources.
const (
	AliasSourceSeed        = "seed"
	AliasSourceManual      = "manual"
	AliasSourceAIGenerated = "ai_generated"
)

// RecipeSimple is the listing shape used by GET /recipes.
type RecipeSimple struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Seasonings  []string `json:"seasonings"`
}

// RecipeDetails is the full recipe view returned by GET /recipes/{name}.
type RecipeDetails struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Seasonings   []string `json:"seasonings"`
	CuisineType  string   `json:"cuisineType"`
	Instructions string   `json:"instructions,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

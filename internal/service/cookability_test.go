package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCookability(t *testing.T) (*CookabilityService, *RecipeService, *IngredientResolver) {
	db := setupTestDB(t)
	store := NewRecipeService(db, testLogger())
	resolver := NewIngredientResolver(db, nil, testLogger())
	return NewCookabilityService(store, resolver, testLogger()), store, resolver
}

func TestFindCookableRecipesBasic(t *testing.T) {
	cook, _, _ := setupCookability(t)

	// A composite recipe: burger needs the sandwich it unlocks.
	made := cook.FindCookableRecipes(
		[]string{"sandwich", "burger"},
		[][]string{{"bread", "ham"}, {"bread", "meat", "sandwich"}},
		[]string{"bread", "ham", "meat"},
	)
	assert.Equal(t, []string{"sandwich", "burger"}, made)
}

func TestFindCookableRecipesMissingIngredient(t *testing.T) {
	cook, _, _ := setupCookability(t)

	made := cook.FindCookableRecipes(
		[]string{"omelette"},
		[][]string{{"egg", "milk"}},
		[]string{"egg"},
	)
	assert.Empty(t, made)
}

func TestFindCookableRecipesMergesDuplicates(t *testing.T) {
	cook, _, _ := setupCookability(t)

	// Duplicate names union their ingredients; the union must be satisfied.
	made := cook.FindCookableRecipes(
		[]string{"soup", "soup"},
		[][]string{{"water"}, {"carrot"}},
		[]string{"water"},
	)
	assert.Empty(t, made)

	made = cook.FindCookableRecipes(
		[]string{"soup", "soup"},
		[][]string{{"water"}, {"carrot"}},
		[]string{"water", "carrot"},
	)
	assert.Equal(t, []string{"soup"}, made)
}

func TestFindCookableRecipesSelfLoopNeverEmitted(t *testing.T) {
	cook, _, _ := setupCookability(t)

	made := cook.FindCookableRecipes(
		[]string{"sourdough"},
		[][]string{{"flour", "sourdough"}},
		[]string{"flour"},
	)
	assert.Empty(t, made)
}

func TestFindCookableRecipesEmptyInputs(t *testing.T) {
	cook, _, _ := setupCookability(t)

	assert.Empty(t, cook.FindCookableRecipes(nil, nil, []string{"bread"}))
	assert.Empty(t, cook.FindCookableRecipes(
		[]string{"sandwich"}, [][]string{{"bread"}}, nil,
	))
}

func TestFindCookableFromFridgeExcludesSeasonings(t *testing.T) {
	cook, store, _ := setupCookability(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecipe(ctx, "carbonara",
		[]string{"pasta", "egg", "pancetta"},
		[]string{"salt", "pepper"},
		"ITALIAN", "", ""))
	for _, item := range []string{"pasta", "egg", "pancetta"} {
		require.NoError(t, store.AddSupply(ctx, item, 1))
	}

	made, err := cook.FindCookableFromFridge(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"carbonara"}, made)
}

func TestFindCookableFromFridgeAliasResolution(t *testing.T) {
	cook, store, resolver := setupCookability(t)
	ctx := context.Background()

	require.NoError(t, resolver.AddAlias("tomato", "roma tomato"))
	require.NoError(t, store.SaveRecipe(ctx, "salad", []string{"tomato", "lettuce"}, nil, "OTHER", "", ""))
	require.NoError(t, store.AddSupply(ctx, "roma tomato", 1))
	require.NoError(t, store.AddSupply(ctx, "lettuce", 1))

	made, err := cook.FindCookableFromFridge(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"salad"}, made)
}

func TestFindCookableFromFridgeEmpty(t *testing.T) {
	cook, store, _ := setupCookability(t)
	ctx := context.Background()

	made, err := cook.FindCookableFromFridge(ctx)
	require.NoError(t, err)
	assert.Empty(t, made)

	// Recipes without supplies still yield nothing.
	require.NoError(t, store.SaveRecipe(ctx, "toast", []string{"bread"}, nil, "OTHER", "", ""))
	made, err = cook.FindCookableFromFridge(ctx)
	require.NoError(t, err)
	assert.Empty(t, made)
}

func TestFindAlmostCookable(t *testing.T) {
	cook, store, _ := setupCookability(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecipe(ctx, "omelette", []string{"egg", "milk"}, nil, "FRENCH", "", ""))
	require.NoError(t, store.SaveRecipe(ctx, "cake", []string{"egg", "flour", "sugar", "butter"}, nil, "OTHER", "", ""))
	require.NoError(t, store.AddSupply(ctx, "egg", 6))

	almost, err := cook.FindAlmostCookable(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, almost, "omelette")
	assert.Equal(t, []string{"milk"}, almost["omelette"])
	assert.NotContains(t, almost, "cake")

	almost, err = cook.FindAlmostCookable(ctx, 3)
	require.NoError(t, err)
	assert.Contains(t, almost, "omelette")
	assert.Contains(t, almost, "cake")
	assert.Len(t, almost["cake"], 3)
}

func TestFindAlmostCookableBounds(t *testing.T) {
	cook, _, _ := setupCookability(t)
	ctx := context.Background()

	for _, bad := range []int{0, -1, 6, 100} {
		_, err := cook.FindAlmostCookable(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestSeasoningNeverAffectsCookability(t *testing.T) {
	cook, store, _ := setupCookability(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecipe(ctx, "rice", []string{"rice grain"}, nil, "OTHER", "", ""))
	require.NoError(t, store.AddSupply(ctx, "rice grain", 1))

	before, err := cook.FindCookableFromFridge(ctx)
	require.NoError(t, err)

	// Re-adding with a seasoning must not change the outcome.
	require.NoError(t, store.SaveRecipe(ctx, "rice", []string{"rice grain"}, []string{"saffron"}, "OTHER", "", ""))
	after, err := cook.FindCookableFromFridge(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

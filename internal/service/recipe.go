package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/smartfridge-backend/internal/models"
)

// RecipeService owns the relational store: recipes, their dependency
// edges and the pantry. It is the single source of truth; the vector index
// and cache are derived projections maintained elsewhere.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewRecipeService(db *gorm.DB, logger *zap.SugaredLogger) *RecipeService {
	return &RecipeService{db: db, logger: logger}
}

// SaveRecipe persists a recipe transactionally: food tokens with
// ignore-on-conflict, edges re-established atomically with order and
// seasoning flags, details upserted. A token may not appear in both
// ingredients and seasonings.
func (s *RecipeService) SaveRecipe(ctx context.Context, name string, ingredients, seasonings []string, cuisineType, instructions, imageURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: recipe name is required", ErrInvalidArgument)
	}
	if len(ingredients) == 0 {
		return fmt.Errorf("%w: ingredients list is required", ErrInvalidArgument)
	}

	ingredientSet := make(map[string]struct{}, len(ingredients))
	for _, ingredient := range ingredients {
		ingredientSet[ingredient] = struct{}{}
	}
	for _, seasoning := range seasonings {
		if _, both := ingredientSet[seasoning]; both {
			return fmt.Errorf("%w: %q appears in both ingredients and seasonings", ErrInvalidArgument, seasoning)
		}
	}

	cuisine := string(models.ParseCuisineType(cuisineType))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		foodItems := make([]models.FoodItem, 0, 1+len(ingredients)+len(seasonings))
		foodItems = append(foodItems, models.FoodItem{Name: name})
		for _, ingredient := range ingredients {
			foodItems = append(foodItems, models.FoodItem{Name: ingredient})
		}
		for _, seasoning := range seasonings {
			foodItems = append(foodItems, models.FoodItem{Name: seasoning})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&foodItems).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_name = ?", name).Delete(&models.RecipeDependency{}).Error; err != nil {
			return err
		}

		edges := make([]models.RecipeDependency, 0, len(ingredients)+len(seasonings))
		position := 0
		for _, ingredient := range ingredients {
			edges = append(edges, models.RecipeDependency{
				RecipeName:     name,
				IngredientName: ingredient,
				IsSeasoning:    false,
				Position:       position,
			})
			position++
		}
		for _, seasoning := range seasonings {
			edges = append(edges, models.RecipeDependency{
				RecipeName:     name,
				IngredientName: seasoning,
				IsSeasoning:    true,
				Position:       position,
			})
			position++
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}

		detail := models.RecipeDetail{
			RecipeName:   name,
			CuisineType:  cuisine,
			Instructions: instructions,
			ImageURL:     imageURL,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"cuisine_type", "instructions", "image_url"}),
		}).Create(&detail).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save recipe %q: %w", name, err)
	}
	return nil
}

// DeleteRecipe removes the detail row and all edges. Orphan food tokens
// may remain.
func (s *RecipeService) DeleteRecipe(ctx context.Context, name string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_name = ?", name).Delete(&models.RecipeDetail{}).Error; err != nil {
			return err
		}
		return tx.Where("recipe_name = ?", name).Delete(&models.RecipeDependency{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %q: %w", name, err)
	}
	return nil
}

// GetRecipeDetails reads one recipe with ingredients and seasonings in
// written order.
func (s *RecipeService) GetRecipeDetails(ctx context.Context, name string) (*models.RecipeDetails, error) {
	var detail models.RecipeDetail
	err := s.db.WithContext(ctx).First(&detail, "recipe_name = ?", name).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: recipe %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get recipe %q: %w", name, err)
	}

	var edges []models.RecipeDependency
	err = s.db.WithContext(ctx).
		Where("recipe_name = ?", name).
		Order("position ASC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe edges for %q: %w", name, err)
	}

	details := &models.RecipeDetails{
		Name:         name,
		Ingredients:  []string{},
		Seasonings:   []string{},
		CuisineType:  string(models.ParseCuisineType(detail.CuisineType)),
		Instructions: detail.Instructions,
		ImageURL:     detail.ImageURL,
	}
	for _, edge := range edges {
		if edge.IsSeasoning {
			details.Seasonings = append(details.Seasonings, edge.IngredientName)
		} else {
			details.Ingredients = append(details.Ingredients, edge.IngredientName)
		}
	}
	return details, nil
}

// GetNonSeasoningIngredients returns the cookability-relevant requirements
// of a recipe in written order.
func (s *RecipeService) GetNonSeasoningIngredients(ctx context.Context, name string) ([]string, error) {
	var ingredients []string
	err := s.db.WithContext(ctx).Model(&models.RecipeDependency{}).
		Select("ingredient_name").
		Where("recipe_name = ? AND is_seasoning = ?", name, false).
		Order("position ASC").
		Scan(&ingredients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredients for %q: %w", name, err)
	}
	return ingredients, nil
}

// LoadRecipeGraph returns recipe → non-seasoning ingredients for every
// stored recipe. Seasonings never count as dependencies.
func (s *RecipeService) LoadRecipeGraph(ctx context.Context) (map[string][]string, error) {
	var edges []models.RecipeDependency
	err := s.db.WithContext(ctx).
		Where("is_seasoning = ?", false).
		Order("recipe_name ASC").Order("position ASC").
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe graph: %w", err)
	}

	graph := make(map[string][]string)
	for _, edge := range edges {
		graph[edge.RecipeName] = append(graph[edge.RecipeName], edge.IngredientName)
	}
	return graph, nil
}

// GetAllRecipesByCuisine groups every recipe under its cuisine for the
// listing endpoint.
func (s *RecipeService) GetAllRecipesByCuisine(ctx context.Context) (map[string][]models.RecipeSimple, error) {
	var details []models.RecipeDetail
	err := s.db.WithContext(ctx).Order("cuisine_type ASC").Order("recipe_name ASC").Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	var edges []models.RecipeDependency
	err = s.db.WithContext(ctx).Order("recipe_name ASC").Order("position ASC").Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe edges: %w", err)
	}

	ingredientsByRecipe := make(map[string][]string)
	seasoningsByRecipe := make(map[string][]string)
	for _, edge := range edges {
		if edge.IsSeasoning {
			seasoningsByRecipe[edge.RecipeName] = append(seasoningsByRecipe[edge.RecipeName], edge.IngredientName)
		} else {
			ingredientsByRecipe[edge.RecipeName] = append(ingredientsByRecipe[edge.RecipeName], edge.IngredientName)
		}
	}

	grouped := make(map[string][]models.RecipeSimple)
	for _, detail := range details {
		cuisine := string(models.ParseCuisineType(detail.CuisineType))
		grouped[cuisine] = append(grouped[cuisine], models.RecipeSimple{
			Name:        detail.RecipeName,
			Ingredients: ingredientsByRecipe[detail.RecipeName],
			Seasonings:  seasoningsByRecipe[detail.RecipeName],
		})
	}
	return grouped, nil
}

// ListRecipeNames returns every stored recipe name, used by the reindexer.
func (s *RecipeService) ListRecipeNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.RecipeDetail{}).
		Select("recipe_name").
		Order("recipe_name ASC").
		Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe names: %w", err)
	}
	return names, nil
}

// GetSupplies returns the pantry in user order with quantities.
func (s *RecipeService) GetSupplies(ctx context.Context) ([]models.Supply, error) {
	var supplies []models.Supply
	err := s.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC").Find(&supplies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get supplies: %w", err)
	}
	return supplies, nil
}

// GetSupplyNames returns the pantry token set in user order.
func (s *RecipeService) GetSupplyNames(ctx context.Context) ([]string, error) {
	supplies, err := s.GetSupplies(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(supplies))
	for _, supply := range supplies {
		names = append(names, supply.Name)
	}
	return names, nil
}

// AddSupply adds count units of an item, accumulating onto an existing row.
func (s *RecipeService) AddSupply(ctx context.Context, item string, count int) error {
	if strings.TrimSpace(item) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalidArgument)
	}
	if count < 1 {
		return fmt.Errorf("%w: count must be at least 1", ErrInvalidArgument)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.FoodItem{Name: item}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("supplies.quantity + ?", count)}),
		}).Create(&models.Supply{Name: item, Quantity: count}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to add supply %q: %w", item, err)
	}
	return nil
}

// UpdateSupplyCount sets the quantity of an existing item.
func (s *RecipeService) UpdateSupplyCount(ctx context.Context, item string, count int) error {
	if count < 1 {
		return fmt.Errorf("%w: count must be at least 1", ErrInvalidArgument)
	}
	result := s.db.WithContext(ctx).Model(&models.Supply{}).
		Where("name = ?", item).
		Update("quantity", count)
	if result.Error != nil {
		return fmt.Errorf("failed to update supply %q: %w", item, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: supply %q", ErrNotFound, item)
	}
	return nil
}

// ReplaceSupplies swaps the whole pantry for the given list.
func (s *RecipeService) ReplaceSupplies(ctx context.Context, supplies []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Supply{}).Error; err != nil {
			return err
		}
		if len(supplies) == 0 {
			return nil
		}

		foodItems := make([]models.FoodItem, 0, len(supplies))
		rows := make([]models.Supply, 0, len(supplies))
		seen := make(map[string]struct{}, len(supplies))
		for i, name := range supplies {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			foodItems = append(foodItems, models.FoodItem{Name: name})
			rows = append(rows, models.Supply{Name: name, Quantity: 1, SortOrder: i})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&foodItems).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace supplies: %w", err)
	}
	return nil
}

// UpdateSupplyOrder rewrites sort_order to match the given item order.
func (s *RecipeService) UpdateSupplyOrder(ctx context.Context, orderedItems []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, item := range orderedItems {
			if err := tx.Model(&models.Supply{}).
				Where("name = ?", item).
				Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update supply order: %w", err)
	}
	return nil
}

// RemoveSupply deletes one pantry item.
func (s *RecipeService) RemoveSupply(ctx context.Context, item string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", item).Delete(&models.Supply{}).Error; err != nil {
		return fmt.Errorf("failed to remove supply %q: %w", item, err)
	}
	return nil
}

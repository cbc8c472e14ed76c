package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// CookabilityService enumerates recipes fully coverable from the pantry by
// Kahn-style propagation over the ingredient→recipe graph. It is
// deterministic and does not touch the vector or cache layers.
type CookabilityService struct {
	store    *RecipeService
	resolver *IngredientResolver
	logger   *zap.SugaredLogger
}

func NewCookabilityService(store *RecipeService, resolver *IngredientResolver, logger *zap.SugaredLogger) *CookabilityService {
	return &CookabilityService{store: store, resolver: resolver, logger: logger}
}

// FindCookableRecipes answers the request form: explicit recipes with their
// ingredient lists and an explicit supply list. Duplicate recipe names are
// merged by ingredient union before the graph is built. Results come back
// in Kahn discovery order.
func (s *CookabilityService) FindCookableRecipes(recipes []string, ingredients [][]string, supplies []string) []string {
	order, merged := mergeRecipes(recipes, ingredients)
	return s.kahn(order, merged, supplies)
}

// FindCookableFromFridge runs the same propagation over stored recipes
// (non-seasoning edges only) and the stored pantry.
func (s *CookabilityService) FindCookableFromFridge(ctx context.Context) ([]string, error) {
	graph, err := s.store.LoadRecipeGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe graph: %w", err)
	}
	supplies, err := s.store.GetSupplyNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplies: %w", err)
	}
	if len(graph) == 0 || len(supplies) == 0 {
		return []string{}, nil
	}

	order := make([]string, 0, len(graph))
	for recipeName := range graph {
		order = append(order, recipeName)
	}
	sort.Strings(order)

	return s.kahn(order, graph, supplies), nil
}

// FindAlmostCookable returns, for every stored recipe within maxMissing of
// being cookable, the canonical ingredients still missing. maxMissing is
// bounded to 1..5.
func (s *CookabilityService) FindAlmostCookable(ctx context.Context, maxMissing int) (map[string][]string, error) {
	if maxMissing < 1 || maxMissing > 5 {
		return nil, fmt.Errorf("%w: maxMissing must be between 1 and 5", ErrInvalidArgument)
	}

	graph, err := s.store.LoadRecipeGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe graph: %w", err)
	}
	supplies, err := s.store.GetSupplyNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplies: %w", err)
	}

	pantry := s.resolver.ResolveToSet(supplies)

	almost := make(map[string][]string)
	for recipeName, required := range graph {
		missing := []string{}
		seen := make(map[string]struct{})
		for _, ingredient := range required {
			canonical := s.resolver.Resolve(ingredient)
			if _, dup := seen[canonical]; dup {
				continue
			}
			seen[canonical] = struct{}{}
			if _, ok := pantry[canonical]; ok {
				continue
			}
			if _, ok := pantry[ingredient]; ok {
				continue
			}
			missing = append(missing, canonical)
		}
		if len(missing) <= maxMissing {
			almost[recipeName] = missing
		}
	}
	return almost, nil
}

// mergeRecipes unions ingredient lists of duplicate recipe names while
// keeping first-seen recipe order.
func mergeRecipes(recipes []string, ingredients [][]string) ([]string, map[string][]string) {
	order := make([]string, 0, len(recipes))
	merged := make(map[string][]string, len(recipes))
	for i, name := range recipes {
		if _, known := merged[name]; !known {
			order = append(order, name)
			merged[name] = nil
		}
		seen := make(map[string]struct{}, len(merged[name]))
		for _, ing := range merged[name] {
			seen[ing] = struct{}{}
		}
		for _, ing := range ingredients[i] {
			if _, dup := seen[ing]; dup {
				continue
			}
			seen[ing] = struct{}{}
			merged[name] = append(merged[name], ing)
		}
	}
	return order, merged
}

// kahn canonicalizes both sides, builds ingredient→recipe edges with
// per-recipe in-degrees, seeds the queue with the pantry (canonical and raw
// forms both) and propagates. An emitted recipe is itself a food token and
// re-enters the queue, which is how composite recipes become cookable. A
// recipe listing itself keeps a nonzero in-degree and is never emitted.
func (s *CookabilityService) kahn(order []string, recipes map[string][]string, supplies []string) []string {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for _, recipeName := range order {
		seen := make(map[string]struct{}, len(recipes[recipeName]))
		for _, ingredient := range recipes[recipeName] {
			canonical := s.resolver.Resolve(ingredient)
			if _, dup := seen[canonical]; dup {
				continue
			}
			seen[canonical] = struct{}{}
			graph[canonical] = append(graph[canonical], recipeName)
			inDegree[recipeName]++
		}
	}

	queue := make([]string, 0, len(supplies)*2)
	processed := make(map[string]struct{})
	enqueue := func(token string) {
		if _, done := processed[token]; done {
			return
		}
		processed[token] = struct{}{}
		queue = append(queue, token)
	}
	for _, supply := range supplies {
		enqueue(s.resolver.Resolve(supply))
		enqueue(supply)
	}

	cookable := []string{}
	emitted := make(map[string]struct{})
	for len(queue) > 0 {
		token := queue[0]
		queue = queue[1:]

		for _, recipeName := range graph[token] {
			inDegree[recipeName]--
			if inDegree[recipeName] != 0 {
				continue
			}
			if _, done := emitted[recipeName]; done {
				continue
			}
			emitted[recipeName] = struct{}{}
			cookable = append(cookable, recipeName)
			enqueue(s.resolver.Resolve(recipeName))
			enqueue(recipeName)
		}
	}
	return cookable
}

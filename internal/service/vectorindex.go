package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/models"
)

const (
	collectionName = "recipes_v2"
	prefetchLimit  = 50
)

// VectorIndexService is the REST client for the Qdrant vector store. The
// collection carries two named vectors per recipe point: dense (cosine) and
// sparse (IDF-modified, BM25-like). Search is a degradable feature, so every
// operation logs and degrades instead of failing the caller.
type VectorIndexService struct {
	baseURL   string
	http      *http.Client
	dimension int
	available bool
	logger    *zap.SugaredLogger
}

// NewVectorIndexService probes the store and ensures the collection exists.
// An unreachable store leaves the service unavailable; all operations then
// short-circuit.
func NewVectorIndexService(host, port string, dimension int, logger *zap.SugaredLogger) *VectorIndexService {
	s := &VectorIndexService{
		baseURL:   fmt.Sprintf("http://%s:%s", host, port),
		http:      &http.Client{Timeout: 10 * time.Second},
		dimension: dimension,
		logger:    logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.EnsureCollection(ctx); err != nil {
		logger.Warnw("vector index unreachable, hybrid search degraded", "baseURL", s.baseURL, "error", err)
		return s
	}
	s.available = true
	return s
}

func (s *VectorIndexService) Available() bool { return s.available }

// PointID derives the stable 63-bit point id for a recipe name. The same
// function serves upsert and delete. A longer id would be warranted if the
// corpus ever grew to a scale where collisions matter.
func PointID(recipeName string) uint64 {
	return xxhash.Sum64String(recipeName) & 0x7FFFFFFFFFFFFFFF
}

// EnsureCollection creates the collection if missing. Idempotent; called
// once at startup by the constructor.
func (s *VectorIndexService) EnsureCollection(ctx context.Context) error {
	status, _, err := s.request(ctx, http.MethodGet, "/collections/"+collectionName, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"dense": map[string]interface{}{
				"size":     s.dimension,
				"distance": "Cosine",
			},
		},
		"sparse_vectors": map[string]interface{}{
			"sparse": map[string]interface{}{
				"modifier": "idf",
			},
		},
	}
	status, respBody, err := s.request(ctx, http.MethodPut, "/collections/"+collectionName, body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("failed to create collection: status %d: %s", status, respBody)
	}
	s.logger.Infow("created vector collection", "collection", collectionName, "dimension", s.dimension)
	return nil
}

// UpsertRecipe writes one recipe point with both named vectors and its
// payload. An empty sparse vector is omitted from the point.
func (s *VectorIndexService) UpsertRecipe(ctx context.Context, name string, dense []float32, sparse SparseVector, payload RecipePayload) error {
	if !s.available {
		return nil
	}

	vectors := map[string]interface{}{"dense": dense}
	if !sparse.IsEmpty() {
		vectors["sparse"] = map[string]interface{}{
			"indices": sparse.Indices,
			"values":  sparse.Values,
		}
	}

	body := map[string]interface{}{
		"points": []map[string]interface{}{{
			"id":      PointID(name),
			"vector":  vectors,
			"payload": payload,
		}},
	}

	status, respBody, err := s.request(ctx, http.MethodPut, "/collections/"+collectionName+"/points", body)
	if err != nil {
		s.logger.Errorw("failed to upsert recipe point", "recipe", name, "error", err)
		return err
	}
	if status >= 300 {
		err := fmt.Errorf("upsert returned status %d: %s", status, respBody)
		s.logger.Errorw("failed to upsert recipe point", "recipe", name, "error", err)
		return err
	}
	return nil
}

// DeletePoint removes a recipe's point by its derived id.
func (s *VectorIndexService) DeletePoint(ctx context.Context, name string) error {
	if !s.available {
		return nil
	}

	body := map[string]interface{}{
		"points": []uint64{PointID(name)},
	}
	status, respBody, err := s.request(ctx, http.MethodPost, "/collections/"+collectionName+"/points/delete", body)
	if err != nil {
		s.logger.Errorw("failed to delete recipe point", "recipe", name, "error", err)
		return err
	}
	if status >= 300 {
		err := fmt.Errorf("delete returned status %d: %s", status, respBody)
		s.logger.Errorw("failed to delete recipe point", "recipe", name, "error", err)
		return err
	}
	return nil
}

type scoredPoint struct {
	Score   float32 `json:"score"`
	Payload struct {
		RecipeName  string `json:"recipe_name"`
		CuisineType string `json:"cuisine_type"`
	} `json:"payload"`
}

// SimpleSearch runs a single-vector cosine search against the dense vector.
func (s *VectorIndexService) SimpleSearch(ctx context.Context, dense []float32, topK int, minScore float32) ([]models.SearchResult, error) {
	if !s.available {
		return []models.SearchResult{}, nil
	}

	body := map[string]interface{}{
		"vector":          map[string]interface{}{"name": "dense", "vector": dense},
		"limit":           topK,
		"with_payload":    true,
		"score_threshold": minScore,
	}
	status, respBody, err := s.request(ctx, http.MethodPost, "/collections/"+collectionName+"/points/search", body)
	if err != nil {
		s.logger.Errorw("vector search failed", "error", err)
		return []models.SearchResult{}, err
	}
	if status >= 300 {
		err := fmt.Errorf("search returned status %d: %s", status, respBody)
		s.logger.Errorw("vector search failed", "error", err)
		return []models.SearchResult{}, err
	}

	var parsed struct {
		Result []scoredPoint `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return []models.SearchResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(parsed.Result))
	for _, point := range parsed.Result {
		// Some store versions ignore score_threshold; re-check here.
		if point.Score < minScore {
			continue
		}
		results = append(results, models.SearchResult{
			RecipeName:  point.Payload.RecipeName,
			Score:       point.Score,
			CuisineType: point.Payload.CuisineType,
			MatchType:   models.MatchTypeSemantic,
		})
	}
	return results, nil
}

// HybridQuery issues a prefetch+RRF query: each sub-query recalls up to 50
// candidates and the store fuses them by reciprocal rank.
func (s *VectorIndexService) HybridQuery(ctx context.Context, prefetch []PrefetchQuery, limit int) ([]models.SearchResult, error) {
	if !s.available {
		return []models.SearchResult{}, nil
	}

	prefetchBodies := make([]map[string]interface{}, 0, len(prefetch))
	for _, p := range prefetch {
		sub := map[string]interface{}{
			"using": p.Using,
			"limit": p.Limit,
		}
		if p.Sparse != nil {
			sub["query"] = map[string]interface{}{
				"indices": p.Sparse.Indices,
				"values":  p.Sparse.Values,
			}
		} else {
			sub["query"] = p.Dense
		}
		prefetchBodies = append(prefetchBodies, sub)
	}

	body := map[string]interface{}{
		"prefetch":     prefetchBodies,
		"query":        map[string]interface{}{"fusion": "rrf"},
		"limit":        limit,
		"with_payload": true,
	}
	status, respBody, err := s.request(ctx, http.MethodPost, "/collections/"+collectionName+"/points/query", body)
	if err != nil {
		s.logger.Errorw("hybrid query failed", "error", err)
		return nil, err
	}
	if status >= 300 {
		err := fmt.Errorf("hybrid query returned status %d: %s", status, respBody)
		s.logger.Errorw("hybrid query failed", "error", err)
		return nil, err
	}

	// Newer store versions wrap points in result.points; older ones return
	// result as the array directly.
	var wrapped struct {
		Result struct {
			Points []scoredPoint `json:"points"`
		} `json:"result"`
	}
	points := []scoredPoint{}
	if err := json.Unmarshal(respBody, &wrapped); err == nil && len(wrapped.Result.Points) > 0 {
		points = wrapped.Result.Points
	} else {
		var flat struct {
			Result []scoredPoint `json:"result"`
		}
		if err := json.Unmarshal(respBody, &flat); err != nil {
			return nil, fmt.Errorf("failed to decode hybrid response: %w", err)
		}
		points = flat.Result
	}

	results := make([]models.SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, models.SearchResult{
			RecipeName:  point.Payload.RecipeName,
			Score:       point.Score,
			CuisineType: point.Payload.CuisineType,
			MatchType:   models.MatchTypeHybridRRF,
		})
	}
	return results, nil
}

// Stats reports collection counters for the stats endpoint.
func (s *VectorIndexService) Stats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"initialized":    s.available,
		"collectionName": collectionName,
	}
	if !s.available {
		return stats
	}

	status, respBody, err := s.request(ctx, http.MethodGet, "/collections/"+collectionName, nil)
	if err != nil || status >= 300 {
		stats["error"] = fmt.Sprintf("failed to fetch collection info (status %d)", status)
		return stats
	}

	var parsed struct {
		Result struct {
			PointsCount  int64  `json:"points_count"`
			VectorsCount int64  `json:"vectors_count"`
			Status       string `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err == nil {
		stats["pointsCount"] = parsed.Result.PointsCount
		stats["vectorsCount"] = parsed.Result.VectorsCount
		stats["status"] = parsed.Result.Status
	}
	return stats
}

func (s *VectorIndexService) request(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

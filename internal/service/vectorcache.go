package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/smartfridge-backend/internal/models"
)

const (
	embeddingKeyPrefix = "emb:"
	searchKeyPrefix    = "search:"
	cacheCallTimeout   = 2 * time.Second
)

// VectorCacheService is the cache-aside layer in front of embedding
// generation and hybrid search. A missing or failing cache is never a
// user-visible error: every operation degrades to a no-op.
type VectorCacheService struct {
	redis     *redis.Client
	ttl       time.Duration
	available bool
	logger    *zap.SugaredLogger
}

// NewVectorCacheService pings the backend once; an unreachable cache leaves
// the service in unavailable mode where all operations no-op.
func NewVectorCacheService(client *redis.Client, ttlSeconds int, logger *zap.SugaredLogger) *VectorCacheService {
	s := &VectorCacheService{
		redis:  client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		logger: logger,
	}
	if client == nil {
		logger.Warn("cache client missing, caching disabled")
		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheCallTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("cache unreachable, caching disabled", "error", err)
		return s
	}
	s.available = true
	logger.Infow("vector cache initialized", "ttl", s.ttl)
	return s
}

func (s *VectorCacheService) Available() bool { return s.available }

// GetEmbedding returns a cached dense vector for the query, or nil.
func (s *VectorCacheService) GetEmbedding(ctx context.Context, query string) []float32 {
	if !s.available || query == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	data, err := s.redis.Get(ctx, embeddingKeyPrefix+hashKey(query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Errorw("failed to read embedding cache", "error", err)
		}
		return nil
	}
	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		s.logger.Errorw("failed to decode cached embedding", "error", err)
		return nil
	}
	return embedding
}

// PutEmbedding caches a dense vector for the query under the configured TTL.
func (s *VectorCacheService) PutEmbedding(ctx context.Context, query string, embedding []float32) {
	if !s.available || query == "" || len(embedding) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	data, err := json.Marshal(embedding)
	if err != nil {
		s.logger.Errorw("failed to encode embedding for cache", "error", err)
		return
	}
	if err := s.redis.Set(ctx, embeddingKeyPrefix+hashKey(query), data, s.ttl).Err(); err != nil {
		s.logger.Errorw("failed to cache embedding", "error", err)
	}
}

// GetSearchResults returns a cached ranked result list for the canonical
// key, or nil on miss.
func (s *VectorCacheService) GetSearchResults(ctx context.Context, key string) []models.SearchResult {
	if !s.available || key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	data, err := s.redis.Get(ctx, searchKeyPrefix+hashKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Errorw("failed to read search cache", "error", err)
		}
		return nil
	}
	var results []models.SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		s.logger.Errorw("failed to decode cached search results", "error", err)
		return nil
	}
	return results
}

// PutSearchResults caches a ranked result list under the canonical key.
func (s *VectorCacheService) PutSearchResults(ctx context.Context, key string, results []models.SearchResult) {
	if !s.available || key == "" || results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
	defer cancel()

	data, err := json.Marshal(results)
	if err != nil {
		s.logger.Errorw("failed to encode search results for cache", "error", err)
		return
	}
	if err := s.redis.Set(ctx, searchKeyPrefix+hashKey(key), data, s.ttl).Err(); err != nil {
		s.logger.Errorw("failed to cache search results", "error", err)
	}
}

// BuildSearchKey assembles the canonical request key:
// ing:<sorted-ingredients>|q:<query>|t:<topK>|s:<threshold>. The ing: and
// q: segments are left out when there are no ingredients or no query.
func (s *VectorCacheService) BuildSearchKey(ingredients []string, query string, topK int, threshold float32) string {
	var sb strings.Builder
	if len(ingredients) > 0 {
		sorted := make([]string, len(ingredients))
		for i, ing := range ingredients {
			sorted[i] = strings.ToLower(ing)
		}
		sort.Strings(sorted)
		sb.WriteString("ing:")
		sb.WriteString(strings.Join(sorted, ","))
	}
	if query != "" {
		sb.WriteString("|q:")
		sb.WriteString(strings.ToLower(strings.TrimSpace(query)))
	}
	fmt.Fprintf(&sb, "|t:%d|s:%g", topK, threshold)
	return sb.String()
}

// EvictByPattern removes cache entries whose keys match the pattern. No
// request path calls it; the write path relies on TTL expiry instead.
func (s *VectorCacheService) EvictByPattern(ctx context.Context, pattern string) {
	if !s.available {
		return
	}
	var cursor uint64
	for {
		callCtx, cancel := context.WithTimeout(ctx, cacheCallTimeout)
		keys, next, err := s.redis.Scan(callCtx, cursor, pattern, 100).Result()
		if err != nil {
			cancel()
			s.logger.Errorw("failed to scan cache keys", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := s.redis.Del(callCtx, keys...).Err(); err != nil {
				cancel()
				s.logger.Errorw("failed to evict cache keys", "pattern", pattern, "error", err)
				return
			}
		}
		cancel()
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// ClearAll drops both cache families.
func (s *VectorCacheService) ClearAll(ctx context.Context) {
	s.EvictByPattern(ctx, embeddingKeyPrefix+"*")
	s.EvictByPattern(ctx, searchKeyPrefix+"*")
}

// hashKey shortens arbitrary inputs to hex(sha256(input)[:8]).
func hashKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:8])
}

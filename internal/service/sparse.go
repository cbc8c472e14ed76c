package service

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Sparse vectors are a bag-of-words surrogate over a hash-bucketed
// vocabulary; collisions inside the bucket space are accepted.
const sparseVocabularySize = 100000

var sparseStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "shall": {},
	"can": {}, "need": {}, "recipe": {}, "dish": {}, "food": {},
	"make": {}, "cook": {}, "cooking": {}, "made": {},
}

// SparseVector is a pair of parallel arrays over the hash vocabulary.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

func (v SparseVector) IsEmpty() bool { return len(v.Indices) == 0 }

// SparseEmbedder builds sparse keyword vectors for hybrid search. It is
// pure and stateless; the hash function is stable across processes.
type SparseEmbedder struct{}

func NewSparseEmbedder() *SparseEmbedder { return &SparseEmbedder{} }

// FromIngredients builds a query vector from an ingredient list. Every
// token weighs 1.0; duplicates accumulate.
func (e *SparseEmbedder) FromIngredients(ingredients []string) SparseVector {
	weights := make(map[uint32]float32)
	for _, ingredient := range ingredients {
		addTokens(weights, ingredient, 1.0)
	}
	return toSparseVector(weights)
}

// FromRecipe builds the vector stored for a recipe. Name tokens weigh 2.0,
// cuisine tokens 1.5 and ingredient tokens 1.0.
func (e *SparseEmbedder) FromRecipe(recipeName string, ingredients []string, cuisineType string) SparseVector {
	weights := make(map[uint32]float32)
	addTokens(weights, recipeName, 2.0)
	for _, ingredient := range ingredients {
		addTokens(weights, ingredient, 1.0)
	}
	if cuisineType != "" {
		addTokens(weights, cuisineType, 1.5)
	}
	return toSparseVector(weights)
}

func addTokens(weights map[uint32]float32, text string, weight float32) {
	for _, token := range tokenize(text) {
		weights[vocabularyIndex(token)] += weight
	}
}

// tokenize lowercases and splits on runs of non-alphanumerics, keeping CJK
// ideographs intact, then drops short tokens and stop words. No stemming.
func tokenize(text string) []string {
	if text == "" {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(text))
	parts := strings.FieldsFunc(normalized, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r >= 0x4E00 && r <= 0x9FFF:
			return false
		}
		return true
	})

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) < 2 {
			continue
		}
		if _, stop := sparseStopWords[part]; stop {
			continue
		}
		tokens = append(tokens, part)
	}
	return tokens
}

func vocabularyIndex(token string) uint32 {
	return uint32(xxhash.Sum64String(token) % sparseVocabularySize)
}

func toSparseVector(weights map[uint32]float32) SparseVector {
	vec := SparseVector{
		Indices: make([]uint32, 0, len(weights)),
		Values:  make([]float32, 0, len(weights)),
	}
	for index, value := range weights {
		vec.Indices = append(vec.Indices, index)
		vec.Values = append(vec.Values, value)
	}
	return vec
}

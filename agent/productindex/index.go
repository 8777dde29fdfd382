// Package productindex implements the Product Index component (C2): a
// build-once, read-mostly semantic search over the drinkware catalog, with
// a deterministic secondary sort for price/capacity queries. Grounded in
// the retrieval-pack RAG example's brute-force cosine-similarity vector
// store, adapted to operate directly over domain.Product rather than a
// generic chunk type, since the catalog has no chunking step.
package productindex

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

const (
	defaultK = 5
	maxK     = 20
)

// Index is the concrete, read-mostly domain.ProductIndex implementation.
// After Build completes, Search/SearchSorted are safe for concurrent use
// without blocking, since the underlying slices are never mutated again.
type Index struct {
	embedder domain.Embedder

	mu       sync.RWMutex
	products []domain.Product
	vectors  [][]float64
	built    bool
}

var _ domain.ProductIndex = (*Index)(nil)

func New(embedder domain.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build computes and stores embeddings for the whole catalog. Idempotent:
// calling Build again fully replaces the prior index. Failure is fatal to
// the caller, per the Product Index contract.
func (idx *Index) Build(ctx context.Context, catalog []domain.Product) error {
	corpus := make([]string, len(catalog))
	for i, p := range catalog {
		corpus[i] = p.SearchableText()
	}
	if len(corpus) > 0 {
		if err := idx.embedder.Prepare(ctx, corpus); err != nil {
			return err
		}
	}

	vectors := make([][]float64, len(catalog))
	for i, p := range catalog {
		vec, err := idx.embedder.Embed(ctx, p.SearchableText())
		if err != nil {
			return err
		}
		vectors[i] = vec
	}

	idx.mu.Lock()
	idx.products = append([]domain.Product(nil), catalog...)
	idx.vectors = vectors
	idx.built = true
	idx.mu.Unlock()
	return nil
}

// Len reports the number of indexed products.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.products)
}

// Search returns the top-k products by cosine similarity, ties broken by
// product id ascending. k <= 0 yields an empty list; k is hard-capped at 20. An
// embedding failure on the query is non-fatal: it logs a warning and
// returns an empty list.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.ScoredProduct, error) {
	k = clampK(k)
	if k == 0 {
		return nil, nil
	}

	idx.mu.RLock()
	products := idx.products
	vectors := idx.vectors
	idx.mu.RUnlock()

	if len(products) == 0 {
		return nil, nil
	}

	queryVec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("product index: query embedding failed, returning no matches")
		return nil, nil
	}

	scored := make([]domain.ScoredProduct, len(products))
	for i, p := range products {
		scored[i] = domain.ScoredProduct{Product: p, Score: cosine(vectors[i], queryVec)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Product.ID < scored[j].Product.ID
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// SearchSorted applies the deterministic secondary sort indicated by
// sortKey on top of the semantic search results.
func (idx *Index) SearchSorted(ctx context.Context, query string, k int, sortKey string) ([]domain.ScoredProduct, error) {
	results, err := idx.Search(ctx, query, k)
	if err != nil || len(results) == 0 {
		return results, err
	}
	applySortKey(results, sortKey)
	return results, nil
}

func clampK(k int) int {
	if k <= 0 {
		return 0
	}
	if k > maxK {
		return maxK
	}
	return k
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// DetectSortKey scans a query for the closed keyword sets that select a
// deterministic secondary sort. First match wins; empty string means no
// re-sort.
func DetectSortKey(query string) string {
	lower := strings.ToLower(query)
	switch {
	case containsAny(lower, "cheapest", "lowest price", "budget"):
		return domain.SortCheapest
	case containsAny(lower, "most expensive", "premium", "highest price"):
		return domain.SortMostExpensive
	case containsAny(lower, "largest", "biggest", "most capacity"):
		return domain.SortLargest
	case containsAny(lower, "smallest", "smallest capacity"):
		return domain.SortSmallest
	default:
		return ""
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func applySortKey(results []domain.ScoredProduct, sortKey string) {
	switch sortKey {
	case domain.SortCheapest:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Product.Price != results[j].Product.Price {
				return results[i].Product.Price < results[j].Product.Price
			}
			return results[i].Product.ID < results[j].Product.ID
		})
	case domain.SortMostExpensive:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Product.Price != results[j].Product.Price {
				return results[i].Product.Price > results[j].Product.Price
			}
			return results[i].Product.ID < results[j].Product.ID
		})
	case domain.SortLargest:
		sort.SliceStable(results, func(i, j int) bool {
			ci, cj := results[i].Product.CapacityML, results[j].Product.CapacityML
			if ci == nil || cj == nil {
				return capacityLess(ci, cj, results[i].Product.ID, results[j].Product.ID)
			}
			return capacityLess(cj, ci, results[i].Product.ID, results[j].Product.ID)
		})
	case domain.SortSmallest:
		sort.SliceStable(results, func(i, j int) bool {
			ci, cj := results[i].Product.CapacityML, results[j].Product.CapacityML
			return capacityLess(ci, cj, results[i].Product.ID, results[j].Product.ID)
		})
	}
}

// capacityLess orders by ascending capacity with unknowns (nil) last; ties
// broken by product id ascending.
func capacityLess(a, b *int, idA, idB string) bool {
	switch {
	case a == nil && b == nil:
		return idA < idB
	case a == nil:
		return false
	case b == nil:
		return true
	case *a != *b:
		return *a < *b
	default:
		return idA < idB
	}
}

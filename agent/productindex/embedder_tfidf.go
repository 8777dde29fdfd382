package productindex

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// TFIDFEmbedder is a deterministic, dependency-free Embedder: it builds a
// vocabulary and IDF table from the catalog corpus once at Prepare time and
// embeds any text into an L2-normalized TF-IDF vector over that vocabulary.
// Grounded in the tfidf.Embedder shape from the retrieval-pack's RAG
// text-search example; used as the default Product Index embedder because
// the catalog is small and the build must be reproducible without a
// network call.
type TFIDFEmbedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
	tokenizer  *regexp.Regexp
	stopwords  map[string]struct{}
}

var _ domain.Embedder = (*TFIDFEmbedder)(nil)

func NewTFIDFEmbedder() *TFIDFEmbedder {
	return &TFIDFEmbedder{
		vocabulary: make(map[string]int),
		tokenizer:  regexp.MustCompile(`[a-z0-9]+`),
		stopwords:  defaultStopwords(),
	}
}

func (e *TFIDFEmbedder) Prepare(ctx context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("tfidf: no tokens found in corpus")
	}

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

func (e *TFIDFEmbedder) Dimension() int { return e.dimension }

func (e *TFIDFEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf: embedder not prepared")
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = (float64(count) / float64(total)) * e.idf[idx]
	}
	normalize(vec)
	return vec, nil
}

func (e *TFIDFEmbedder) tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := e.tokenizer.FindAllString(lower, -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := e.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that",
		"from", "up", "down", "over", "under", "so", "such", "into", "about",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

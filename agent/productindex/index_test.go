package productindex

import (
	"context"
	"strings"
	"testing"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

func intPtr(v int) *int { return &v }

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "ZUS All Day Cup", Description: "tumbler for hot and cold drinks", Price: 39.9, CapacityML: intPtr(500)},
		{ID: "p2", Name: "ZUS Frozee Cup", Description: "cup with straw for cold drinks", Price: 25.0, CapacityML: intPtr(650)},
		{ID: "p3", Name: "ZUS Buddy Bottle", Description: "bottle for water", Price: 59.9, CapacityML: intPtr(1000)},
	}
}

func buildIndex(t *testing.T) *Index {
	t.Helper()
	idx := New(NewTFIDFEmbedder())
	if err := idx.Build(context.Background(), sampleCatalog()); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return idx
}

func TestSearchReturnsRankedResults(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.Search(context.Background(), "tumbler for cold drinks", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one result")
	}
}

func TestSearchDeterministic(t *testing.T) {
	idx := buildIndex(t)
	a, _ := idx.Search(context.Background(), "cup", 5)
	b, _ := idx.Search(context.Background(), "cup", 5)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic result length")
	}
	for i := range a {
		if a[i].Product.ID != b[i].Product.ID {
			t.Fatalf("non-deterministic ordering at %d", i)
		}
	}
}

func TestSearchKZeroReturnsEmpty(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.Search(context.Background(), "cup", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result for k=0, got %d", len(results))
	}
}

func TestSearchEmptyCatalog(t *testing.T) {
	idx := New(NewTFIDFEmbedder())
	results, err := idx.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results on empty catalog")
	}
}

func TestSearchSortedCheapestAscending(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.SearchSorted(context.Background(), "cheapest cup", 5, domain.SortCheapest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Product.Price < results[i-1].Product.Price {
			t.Fatalf("expected non-decreasing price, got %v", results)
		}
	}
}

func TestDetectSortKey(t *testing.T) {
	cases := map[string]string{
		"cheapest tumbler":      domain.SortCheapest,
		"most expensive bottle": domain.SortMostExpensive,
		"largest cup":           domain.SortLargest,
		"smallest cup":          domain.SortSmallest,
		"show me tumblers":      "",
	}
	for q, want := range cases {
		if got := DetectSortKey(q); got != want {
			t.Errorf("DetectSortKey(%q) = %q, want %q", q, got, want)
		}
	}
}

func TestParseCatalogLineDelimited(t *testing.T) {
	data := strings.NewReader(`{"id":"p1","name":"Cup","description":"desc","price":10.5,"capacity_ml":500,"tags":["tumbler"]}
{"id":"p2","name":"Bottle","description":"desc2","price":20}
`)
	products, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].CapacityML == nil || *products[0].CapacityML != 500 {
		t.Fatalf("expected capacity 500, got %v", products[0].CapacityML)
	}
}

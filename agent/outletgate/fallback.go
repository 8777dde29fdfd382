package outletgate

import (
	"context"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// knownCities mirrors the cities the catalog's outlet rows actually carry.
// Used only by the last fallback strategy, to avoid firing a city query on
// every unrelated word in the question.
var knownCities = []string{
	"kuala lumpur", "shah alam", "petaling jaya", "subang jaya", "subang",
	"klang", "puchong", "cheras", "ampang", "cyberjaya", "putrajaya",
}

// fallbackSearch runs the non-LLM cascade used when SQL generation or
// execution cannot produce a usable result: by name, then address, then
// individual significant words, then a known-city match. The first
// strategy that returns rows wins.
func (g *Gate) fallbackSearch(ctx context.Context, question string) ([]domain.Outlet, string) {
	if rows, ok := g.tryILike(ctx, "name", question); ok {
		return rows, "fallback:name"
	}
	if rows, ok := g.tryILike(ctx, "address", question); ok {
		return rows, "fallback:address"
	}

	lower := strings.ToLower(question)
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,?!\"'")
		if len(word) <= 3 {
			continue
		}
		if rows, ok := g.tryILike(ctx, "name", word); ok {
			return rows, "fallback:word:" + word
		}
	}

	for _, city := range knownCities {
		if strings.Contains(lower, city) {
			if rows, ok := g.tryILike(ctx, "city", city); ok {
				return rows, "fallback:city:" + city
			}
		}
	}

	return nil, "fallback:none"
}

func (g *Gate) tryILike(ctx context.Context, column, term string) ([]domain.Outlet, bool) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, false
	}
	sql := "SELECT * FROM outlets WHERE " + column + " ILIKE '%" + escapeLiteral(term) + "%' LIMIT 5"
	rows, err := g.rows.Query(ctx, sql)
	if err != nil || len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

package outletgate

import (
	"context"
	"fmt"
)

// generateSQL asks the language model for a single SQL statement and strips
// any markdown fencing the reply may be wrapped in.
func (g *Gate) generateSQL(ctx context.Context, question string) (string, error) {
	raw, err := g.llm.Complete(ctx, g.sqlPrompt, question)
	if err != nil {
		return "", fmt.Errorf("generate sql: %w", err)
	}
	return cleanSQL(raw), nil
}

package llmgraph

import (
	"context"
	"testing"
	"time"
)

type scriptedLLM struct {
	reply string
}

func (s scriptedLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.reply, nil
}

func TestRateLimitedPassesThroughWithinBurst(t *testing.T) {
	limited := NewRateLimited(scriptedLLM{reply: "ok"}, 100, 5)
	reply, err := limited.Complete(context.Background(), "sys", "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "ok" {
		t.Fatalf("expected ok, got %q", reply)
	}
}

func TestRateLimitedThrottlesOverBurst(t *testing.T) {
	limited := NewRateLimited(scriptedLLM{reply: "ok"}, 1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := limited.Complete(context.Background(), "sys", "first"); err != nil {
		t.Fatalf("first Complete() error = %v", err)
	}
	if _, err := limited.Complete(ctx, "sys", "second"); err == nil {
		t.Fatal("expected second call to be throttled past the short deadline")
	}
}

package outletgate

import (
	"context"
	"errors"
	"testing"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

type scriptedLLM struct {
	replies []string
	err     error
	idx     int
}

func (f *scriptedLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.idx >= len(f.replies) {
		return "", errors.New("no scripted reply left")
	}
	r := f.replies[f.idx]
	f.idx++
	return r, nil
}

type fakeRows struct {
	queryResults map[string][]domain.Outlet
	queryErr     error
	countResults map[string]int
	countErr     error
}

func (f *fakeRows) Query(ctx context.Context, sql string) ([]domain.Outlet, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryResults[sql], nil
}

func (f *fakeRows) Count(ctx context.Context, sql string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countResults[sql], nil
}

func TestAnswerSingleRowResult(t *testing.T) {
	sql := "SELECT * FROM outlets WHERE city ILIKE 'Shah Alam' LIMIT 20"
	llm := &scriptedLLM{replies: []string{sql}}
	rows := &fakeRows{queryResults: map[string][]domain.Outlet{
		sql: {{ID: 1, Name: "Shah Alam Outlet", Address: "Jalan 1", City: "Shah Alam", State: "Selangor"}},
	}}

	g := New(llm, rows, "system prompt", Config{})
	answer := g.Answer(context.Background(), "outlets in shah alam")

	if answer.Kind != domain.OutletKindSingle {
		t.Fatalf("expected single kind, got %v", answer.Kind)
	}
	if answer.Err != nil {
		t.Fatalf("unexpected error: %v", answer.Err)
	}
	if answer.FormattedText == "" {
		t.Fatal("expected non-empty formatted text")
	}
}

func TestAnswerCountResult(t *testing.T) {
	sql := "SELECT COUNT(*) FROM outlets WHERE state ILIKE 'Selangor'"
	llm := &scriptedLLM{replies: []string{sql}}
	rows := &fakeRows{countResults: map[string]int{sql: 7}}

	g := New(llm, rows, "system prompt", Config{})
	answer := g.Answer(context.Background(), "how many outlets in selangor")

	if answer.Kind != domain.OutletKindCount {
		t.Fatalf("expected count kind, got %v", answer.Kind)
	}
	if answer.Count != 7 {
		t.Fatalf("expected count 7, got %d", answer.Count)
	}
	if answer.FormattedText != "There are 7 outlets in Selangor." {
		t.Fatalf("unexpected formatted text: %q", answer.FormattedText)
	}
}

func TestAnswerValidationFailureDegradesToFallback(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"DROP TABLE outlets", "DELETE FROM outlets"}}
	rows := &fakeRows{queryResults: map[string][]domain.Outlet{
		"SELECT * FROM outlets WHERE name ILIKE '%klcc%' LIMIT 5": {
			{ID: 2, Name: "KLCC Outlet", Address: "KLCC", City: "Kuala Lumpur", State: "Kuala Lumpur"},
		},
	}}

	g := New(llm, rows, "system prompt", Config{})
	answer := g.Answer(context.Background(), "klcc outlet")

	if answer.Kind != domain.OutletKindList {
		t.Fatalf("expected fallback list kind, got %v (err=%v)", answer.Kind, answer.Err)
	}
	if answer.Count != 1 {
		t.Fatalf("expected 1 fallback row, got %d", answer.Count)
	}
}

func TestAnswerExecutionFailureThenFallbackError(t *testing.T) {
	sql := "SELECT * FROM outlets WHERE city ILIKE 'Nowhere' LIMIT 20"
	llm := &scriptedLLM{replies: []string{sql, sql}}
	rows := &fakeRows{queryErr: errors.New("connection refused")}

	g := New(llm, rows, "system prompt", Config{})
	answer := g.Answer(context.Background(), "outlets in nowhereville")

	if answer.Kind != domain.OutletKindError {
		t.Fatalf("expected error kind, got %v", answer.Kind)
	}
	if answer.Err == nil {
		t.Fatal("expected degrade cause to be set")
	}
}

func TestAnswerEmptyResult(t *testing.T) {
	sql := "SELECT * FROM outlets WHERE city ILIKE 'Atlantis' LIMIT 20"
	llm := &scriptedLLM{replies: []string{sql}}
	rows := &fakeRows{queryResults: map[string][]domain.Outlet{sql: {}}}

	g := New(llm, rows, "system prompt", Config{})
	answer := g.Answer(context.Background(), "outlets in atlantis")

	if answer.Kind != domain.OutletKindEmpty {
		t.Fatalf("expected empty kind, got %v", answer.Kind)
	}
}

func TestValidateSQLRejectsDestructiveStatements(t *testing.T) {
	cases := []string{
		"DROP TABLE outlets",
		"SELECT * FROM outlets; DELETE FROM outlets",
		"SELECT * FROM users",
		"UPDATE outlets SET name='x'",
	}
	for _, sql := range cases {
		if validateSQL(sql) {
			t.Errorf("expected validateSQL(%q) = false", sql)
		}
	}
}

func TestValidateSQLAcceptsWellFormedSelect(t *testing.T) {
	if !validateSQL("SELECT * FROM outlets WHERE city ILIKE 'Shah Alam' LIMIT 20") {
		t.Fatal("expected well-formed select to validate")
	}
}

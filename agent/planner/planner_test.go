package planner

import (
	"reflect"
	"testing"
	"time"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

func freshSession() domain.Session {
	return domain.Session{ID: "s1", Metadata: map[string]string{}}
}

func sessionAfterProductSearch() domain.Session {
	return domain.Session{
		ID:       "s1",
		Metadata: map[string]string{domain.MetaLastPrimaryAction: string(domain.ActionSearchProducts)},
		Turns: []domain.Turn{
			{UserText: "show me tumblers", AssistantText: "here are some tumblers", At: time.Unix(0, 0)},
		},
	}
}

func TestPlanScenario1Addition(t *testing.T) {
	d, err := New().Plan("what is 5 plus 3", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionCalculate {
		t.Fatalf("expected calculate, got %s (calc=%.2f)", d.PrimaryAction, d.CalculateScore)
	}
}

func TestPlanScenario2DivisionByZero(t *testing.T) {
	d, err := New().Plan("what is 100 divided by 0", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionCalculate {
		t.Fatalf("expected calculate, got %s", d.PrimaryAction)
	}
}

func TestPlanScenario3ShowTumblers(t *testing.T) {
	d, err := New().Plan("show me tumblers", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionSearchProducts {
		t.Fatalf("expected search_products, got %s", d.PrimaryAction)
	}
}

func TestPlanScenario4CheapestTumbler(t *testing.T) {
	d, err := New().Plan("cheapest tumbler", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionSearchProducts {
		t.Fatalf("expected search_products, got %s", d.PrimaryAction)
	}
	if d.Entities.SortKey != domain.SortCheapest {
		t.Fatalf("expected cheapest sort key, got %q", d.Entities.SortKey)
	}
}

func TestPlanScenario5HowManyOutletsSelangor(t *testing.T) {
	d, err := New().Plan("how many outlets in Selangor", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionSearchOutlets {
		t.Fatalf("expected search_outlets, got %s", d.PrimaryAction)
	}
	if !d.Entities.CountIntent {
		t.Fatal("expected count intent flag to be set")
	}
}

func TestPlanScenario6TumblerForFivePlusThreePeople(t *testing.T) {
	d, err := New().Plan("I need a tumbler for 5 + 3 people", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionHybrid {
		t.Fatalf("expected hybrid, got %s (calc=%.2f products=%.2f)", d.PrimaryAction, d.CalculateScore, d.ProductsScore)
	}
}

func TestPlanScenario7BarePronounAfterProductSearch(t *testing.T) {
	d, err := New().Plan("it", sessionAfterProductSearch())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionClarify {
		t.Fatalf("expected clarify, got %s", d.PrimaryAction)
	}
	if d.ClarificationPrompt == "" {
		t.Fatal("expected non-empty clarification prompt")
	}
	if len(d.ExecutionPlan) != 0 {
		t.Fatalf("clarify must not dispatch tools, got plan=%v", d.ExecutionPlan)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	session := sessionAfterProductSearch()
	a, err := New().Plan("what about the frozee cup", session)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	b, err := New().Plan("what about the frozee cup", session)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("planner is not pure: %#v != %#v", a, b)
	}
}

func TestPlanEmptyQuestionErrors(t *testing.T) {
	if _, err := New().Plan("   ", freshSession()); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestPlanAnswerDirectlyFallback(t *testing.T) {
	d, err := New().Plan("tell me a fun fact about yourself", freshSession())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if d.PrimaryAction != domain.ActionAnswerDirectly {
		t.Fatalf("expected answer_directly, got %s", d.PrimaryAction)
	}
}

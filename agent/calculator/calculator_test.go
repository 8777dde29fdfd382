package calculator

import (
	"testing"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

func TestDetectIntentWordTrigger(t *testing.T) {
	c := New()
	ok, _ := c.DetectIntent("what is 5 plus 3")
	if !ok {
		t.Fatalf("expected intent detected")
	}
}

func TestDetectIntentNoNumbers(t *testing.T) {
	c := New()
	ok, _ := c.DetectIntent("show me tumblers")
	if ok {
		t.Fatalf("expected no intent")
	}
}

func TestParseAndCalculateAddition(t *testing.T) {
	c := New()
	res := c.ParseAndCalculate("what is 5 plus 3")
	if !res.Ok {
		t.Fatalf("expected ok, got error %v: %s", res.ErrorKind, res.ErrorMessage)
	}
	if res.Value != 8 {
		t.Fatalf("expected 8, got %v", res.Value)
	}
}

func TestParseAndCalculateDivideByZero(t *testing.T) {
	c := New()
	res := c.ParseAndCalculate("what is 100 divided by 0")
	if res.Ok {
		t.Fatalf("expected error, got ok")
	}
	if res.ErrorKind != domain.CalcErrDivideByZero {
		t.Fatalf("expected divide_by_zero, got %v", res.ErrorKind)
	}
	if res.Value != 0 {
		t.Fatalf("ok=false must not carry a value, got %v", res.Value)
	}
}

func TestParseAndCalculateNoExpression(t *testing.T) {
	c := New()
	res := c.ParseAndCalculate("hello there")
	if res.Ok {
		t.Fatalf("expected error")
	}
	if res.ErrorKind != domain.CalcErrNoExpression {
		t.Fatalf("expected no_expression, got %v", res.ErrorKind)
	}
}

func TestCalculatePower(t *testing.T) {
	c := New()
	res := c.Calculate("2 ** 8")
	if !res.Ok || res.Value != 256 {
		t.Fatalf("expected 256, got %+v", res)
	}
}

func TestCalculatePowerBindsTighterThanUnaryMinus(t *testing.T) {
	c := New()
	res := c.Calculate("-2 ** 2")
	if !res.Ok || res.Value != -4 {
		t.Fatalf("expected -4, got %+v", res)
	}
}

func TestCalculatePrecedence(t *testing.T) {
	c := New()
	res := c.Calculate("2 + 3 * 4")
	if !res.Ok || res.Value != 14 {
		t.Fatalf("expected 14, got %+v", res)
	}
}

func TestCalculateInvalidChars(t *testing.T) {
	c := New()
	res := c.Calculate("5 + abc")
	if res.Ok {
		t.Fatalf("expected error")
	}
	if res.ErrorKind != domain.CalcErrInvalidChars {
		t.Fatalf("expected invalid_chars, got %v", res.ErrorKind)
	}
}

func TestCalculateModulo(t *testing.T) {
	c := New()
	res := c.Calculate("17 % 5")
	if !res.Ok || res.Value != 2 {
		t.Fatalf("expected 2, got %+v", res)
	}
}

func TestParseAndCalculateWordTrigger(t *testing.T) {
	c := New()
	res := c.ParseAndCalculate("calculate 10 times 2")
	if !res.Ok || res.Value != 20 {
		t.Fatalf("expected 20, got %+v", res)
	}
}

func TestRoundTripFormatValue(t *testing.T) {
	c := New()
	first := c.Calculate("7 + 1")
	if !first.Ok {
		t.Fatalf("expected ok")
	}
	second := c.Calculate(first.Formatted)
	if !second.Ok || second.Value != first.Value {
		t.Fatalf("round trip mismatch: %+v vs %+v", first, second)
	}
}

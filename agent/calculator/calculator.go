// Package calculator implements the Calculator component (C1): intent
// detection, expression extraction from natural language, and a dedicated
// recursive-descent parser/evaluator. It never shells out to an
// unrestricted runtime-eval facility, never performs I/O, and holds no
// global state.
package calculator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// Calculator is the concrete, stateless domain.Calculator implementation.
type Calculator struct{}

func New() *Calculator { return &Calculator{} }

var _ domain.Calculator = (*Calculator)(nil)

// bareExpressionPattern matches a self-contained arithmetic expression:
// digits, whitespace, decimal points, the operator set, and parentheses.
// The power operator "**" is matched as its own alternative ahead of the
// single-character operators.
var bareExpressionPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?(?:\s*(?:\*\*|[+\-*/%])\s*(?:\(?\s*-?[0-9]+(?:\.[0-9]+)?\s*\)?))+`)

var allowedCharsPattern = regexp.MustCompile(`^[0-9\s+\-*/%().]+$`)

var operatorToken = regexp.MustCompile(`\*\*|[+\-*/%]`)

var numberToken = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// wordTriggers maps the closed set of English word triggers to their
// operator symbols. Replacement iterates in the declared order, which puts
// the multi-word phrases before the single words.
var wordTriggers = []struct {
	phrase string
	symbol string
}{
	{"multiplied by", "*"},
	{"divided by", "/"},
	{"to the power of", "**"},
	{"modulo", "%"},
	{"plus", "+"},
	{"minus", "-"},
	{"times", "*"},
	{"over", "/"},
}

var calculationTriggerWords = []string{
	"plus", "minus", "times", "multiplied by", "divided by", "calculate", "compute", "what is", "equals",
}

// DetectIntent reports whether text contains a recognizable arithmetic
// trigger: two or more numeric tokens separated by an operator, or a
// number paired with a word trigger from the closed set.
func (c *Calculator) DetectIntent(text string) (bool, string) {
	lower := strings.ToLower(text)

	if bareExpressionPattern.MatchString(lower) {
		return true, "bare expression with operator between two numbers"
	}

	numbers := numberToken.FindAllString(lower, -1)
	if len(numbers) == 0 {
		return false, "no numeric tokens found"
	}

	for _, trig := range calculationTriggerWords {
		if strings.Contains(lower, trig) {
			return true, fmt.Sprintf("numeric token plus trigger word %q", trig)
		}
	}

	return false, "numeric tokens present but no operator or trigger word"
}

// ParseAndCalculate extracts a single canonical expression from text, then
// evaluates it, returning a CalcResult that is never both ok=true and
// missing a value, and never ok=false while carrying one.
func (c *Calculator) ParseAndCalculate(text string) domain.CalcResult {
	expr, kind := extractExpression(text)
	if kind != domain.CalcErrNone {
		return domain.CalcResult{Ok: false, Expression: expr, ErrorKind: kind, ErrorMessage: extractionErrorMessage(kind)}
	}
	return evaluate(expr)
}

// Calculate evaluates an already-extracted expression directly, skipping
// natural-language extraction. Exposed for the direct /calculate?expression=
// boundary path.
func (c *Calculator) Calculate(expression string) domain.CalcResult {
	expr := normalizeWhitespace(expression)
	if expr == "" {
		return domain.CalcResult{Ok: false, ErrorKind: domain.CalcErrNoExpression, ErrorMessage: "expression is empty"}
	}
	return evaluate(expr)
}

func extractExpression(text string) (string, domain.CalcErrorKind) {
	lower := strings.ToLower(text)

	// Rule 1: bare expression, usable verbatim after whitespace normalization.
	if m := bareExpressionPattern.FindString(lower); m != "" {
		return normalizeWhitespace(m), domain.CalcErrNone
	}

	// Rule 2: replace word triggers with operator symbols, then extract the
	// longest valid-looking substring.
	replaced := lower
	for _, trig := range wordTriggers {
		replaced = strings.ReplaceAll(replaced, trig.phrase, " "+trig.symbol+" ")
	}
	if m := bareExpressionPattern.FindString(replaced); m != "" {
		return normalizeWhitespace(m), domain.CalcErrNone
	}

	// Rule 3: nothing parseable.
	return "", domain.CalcErrNoExpression
}

func extractionErrorMessage(kind domain.CalcErrorKind) string {
	switch kind {
	case domain.CalcErrNoExpression:
		return "no arithmetic expression could be extracted from the text"
	default:
		return string(kind)
	}
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func evaluate(expression string) domain.CalcResult {
	if !allowedCharsPattern.MatchString(expression) {
		return domain.CalcResult{Ok: false, Expression: expression, ErrorKind: domain.CalcErrInvalidChars, ErrorMessage: "expression contains characters outside the allowed set"}
	}

	if !balancedParens(expression) {
		return domain.CalcResult{Ok: false, Expression: expression, ErrorKind: domain.CalcErrSyntax, ErrorMessage: "unbalanced parentheses"}
	}

	p := &parser{input: expression}
	value, err := p.parseExpr()
	if err == nil {
		p.skipSpaces()
		if p.hasNext() {
			err = fmt.Errorf("unexpected token at position %d", p.pos)
		}
	}
	if err != nil {
		return domain.CalcResult{Ok: false, Expression: expression, ErrorKind: classifyError(err), ErrorMessage: err.Error()}
	}

	if math.IsInf(value, 0) || math.IsNaN(value) || math.Abs(value) > math.MaxFloat64/2 {
		return domain.CalcResult{Ok: false, Expression: expression, ErrorKind: domain.CalcErrOverflow, ErrorMessage: "result is outside the representable range"}
	}

	return domain.CalcResult{Ok: true, Expression: expression, Value: value, Formatted: formatValue(value)}
}

func classifyError(err error) domain.CalcErrorKind {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "division by zero"), strings.Contains(msg, "modulo by zero"):
		return domain.CalcErrDivideByZero
	default:
		return domain.CalcErrSyntax
	}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func balancedParens(expr string) bool {
	balance := 0
	for _, ch := range expr {
		switch ch {
		case '(':
			balance++
		case ')':
			balance--
			if balance < 0 {
				return false
			}
		}
	}
	return balance == 0
}

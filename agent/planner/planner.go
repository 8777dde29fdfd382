// Package planner implements the Planner (C5): the pure decision function
// that turns a question and a session snapshot into a Decision. It performs
// no I/O and holds no state across calls, matching the "planner state
// consultation" design note: it only ever sees an immutable Session
// snapshot, never a live reference.
package planner

import (
	"fmt"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// clarifyWordThreshold is the length threshold under which a pronoun-only
// question with no concrete antecedent is treated as ambiguous rather than
// answered directly. Not specified numerically by the design notes; chosen
// small enough that only short, referential questions ("it", "what about
// that one") trigger clarification instead of a best-effort direct answer.
const clarifyWordThreshold = 4

// Planner is the concrete domain.Planner implementation.
type Planner struct{}

var _ domain.Planner = Planner{}

func New() Planner { return Planner{} }

func (Planner) Plan(question string, snapshot domain.Session) (domain.Decision, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return domain.Decision{}, domain.ErrEmptyQuestion
	}
	lower := strings.ToLower(trimmed)

	flags := extractEntities(trimmed)

	lastAction := snapshot.Metadata[domain.MetaLastPrimaryAction]
	referencedProducts := lastAction == string(domain.ActionSearchProducts)
	referencedOutlets := lastAction == string(domain.ActionSearchOutlets)

	calcScore := scoreCalculate(flags, lower)
	productsScore := scoreProducts(flags, referencedProducts)
	outletsScore := scoreOutlets(flags, referencedOutlets)
	hybridScore := scoreHybrid(productsScore, outletsScore)

	d := domain.Decision{
		Entities:       flags,
		CalculateScore: calcScore,
		ProductsScore:  productsScore,
		OutletsScore:   outletsScore,
		HybridScore:    hybridScore,
	}

	retrievalScore := productsScore
	retrievalAction := domain.ActionSearchProducts
	if outletsScore > retrievalScore {
		retrievalScore = outletsScore
		retrievalAction = domain.ActionSearchOutlets
	}

	switch {
	case calcScore >= 0.6 && calcScore >= retrievalScore:
		if retrievalScore >= 0.6 {
			d.PrimaryAction = domain.ActionHybrid
			d.Confidence = hybridScoreOrMax(hybridScore, calcScore, retrievalScore)
			d.Reasoning = fmt.Sprintf("calculate_score=%.2f upgraded to hybrid by %s=%.2f", calcScore, retrievalAction, retrievalScore)
			d.ExecutionPlan = []string{"calculator.evaluate", string(retrievalAction)}
		} else {
			d.PrimaryAction = domain.ActionCalculate
			d.Confidence = calcScore
			d.Reasoning = fmt.Sprintf("has_math_expression=%v, has_operators=%v, has_numbers=%v -> calculate_score=%.2f", flags.HasMathExpression, flags.HasOperators, flags.HasNumbers, calcScore)
			d.ExecutionPlan = []string{"calculator.evaluate"}
		}

	case hybridScore >= 0.5:
		d.PrimaryAction = domain.ActionHybrid
		d.Confidence = hybridScore
		d.Reasoning = fmt.Sprintf("products_score=%.2f, outlets_score=%.2f -> hybrid_score=%.2f", productsScore, outletsScore, hybridScore)
		plan := []string{string(domain.ActionSearchProducts), string(domain.ActionSearchOutlets)}
		if calcScore >= 0.6 {
			plan = append([]string{"calculator.evaluate"}, plan...)
		}
		d.ExecutionPlan = plan

	case retrievalScore >= 0.6:
		d.PrimaryAction = retrievalAction
		d.Confidence = retrievalScore
		d.Reasoning = fmt.Sprintf("product_keywords_hit=%d, outlet_keywords_hit=%d -> %s=%.2f", flags.ProductKeywordsHit, flags.OutletKeywordsHit, retrievalAction, retrievalScore)
		d.ExecutionPlan = []string{string(retrievalAction)}

	case wordCount(trimmed) < clarifyWordThreshold && flags.ReferencesPriorTurn && len(snapshot.Turns) > 0:
		d.PrimaryAction = domain.ActionClarify
		d.Confidence = 0.5
		d.ClarificationPrompt = buildClarificationPrompt(snapshot, lastAction)
		d.Missing = []string{missingTagFor(lastAction)}
		d.Reasoning = fmt.Sprintf("references_prior_turn=true, last_primary_action=%q, question under length threshold", lastAction)
		d.ExecutionPlan = nil

	default:
		d.PrimaryAction = domain.ActionAnswerDirectly
		d.Confidence = 0.5
		d.Reasoning = "no score crossed its dispatch threshold; answering from general knowledge"
		d.ExecutionPlan = nil
	}

	return d, nil
}

func hybridScoreOrMax(hybridScore, calcScore, retrievalScore float64) float64 {
	if hybridScore > 0 {
		return hybridScore
	}
	if calcScore > retrievalScore {
		return calcScore
	}
	return retrievalScore
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func missingTagFor(lastAction string) string {
	switch lastAction {
	case string(domain.ActionSearchProducts):
		return "missing:product_category"
	case string(domain.ActionSearchOutlets):
		return "missing:location"
	default:
		return "missing:topic"
	}
}

// buildClarificationPrompt asks the user to be specific, anchoring the
// question in whatever was last searched for, per the "use stored
// last_product_query/last_outlet_query" instruction.
func buildClarificationPrompt(snapshot domain.Session, lastAction string) string {
	switch lastAction {
	case string(domain.ActionSearchProducts):
		if q := snapshot.Metadata[domain.MetaLastProductQuery]; q != "" {
			return fmt.Sprintf("Could you be more specific? Are you still asking about %q, or something else?", q)
		}
		return "Could you be more specific about which product you mean?"
	case string(domain.ActionSearchOutlets):
		if q := snapshot.Metadata[domain.MetaLastOutletQuery]; q != "" {
			return fmt.Sprintf("Could you be more specific? Are you still asking about %q, or a different location?", q)
		}
		return "Could you be more specific about which outlet or location you mean?"
	default:
		return "Could you clarify what you're referring to?"
	}
}

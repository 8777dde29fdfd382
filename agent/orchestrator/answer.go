package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// historyWindow bounds how many prior turns are folded into the final
// answer prompt, independent of how many the Session Store retains.
const historyWindow = 3

// composeAnswer builds the context block the final-answer language model
// needs and asks it to produce the user-facing reply. Clarify and
// answer_directly never ran a tool. Clarify skips the model call entirely
// and returns its prepared prompt verbatim; answer_directly still asks the
// model, with empty tool sections.
func (o *Orchestrator) composeAnswer(ctx context.Context, question string, snapshot domain.Session, d domain.Decision, result dispatchResult) (string, error) {
	if d.PrimaryAction == domain.ActionClarify {
		return d.ClarificationPrompt, nil
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	b.WriteString(formatHistory(snapshot))
	b.WriteString("\n\nCalculator result:\n")
	b.WriteString(formatCalculation(result.calc))
	b.WriteString("\n\nRelevant drinkware products:\n")
	b.WriteString(formatProducts(result.products))
	b.WriteString("\n\nRelevant outlet locations:\n")
	b.WriteString(formatOutlets(result.outlet))
	b.WriteString("\n\nUser question: ")
	b.WriteString(question)

	reply, err := o.llm.Complete(ctx, o.cfg.SystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("final answer: %w", err)
	}
	return reply, nil
}

func formatHistory(snapshot domain.Session) string {
	turns := snapshot.Turns
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	if len(turns) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.UserText, t.AssistantText)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCalculation(calc *domain.CalcResult) string {
	if calc == nil {
		return "(not requested)"
	}
	if !calc.Ok {
		return fmt.Sprintf("error (%s): %s", calc.ErrorKind, calc.ErrorMessage)
	}
	return fmt.Sprintf("%s = %s", calc.Expression, calc.Formatted)
}

func formatProducts(products []domain.ScoredProduct) string {
	if len(products) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, sp := range products {
		fmt.Fprintf(&b, "- %s: %s (RM%.2f)\n", sp.Product.Name, sp.Product.Description, sp.Product.Price)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatOutlets(answer domain.OutletAnswer) string {
	if answer.FormattedText == "" {
		return "(none)"
	}
	return answer.FormattedText
}

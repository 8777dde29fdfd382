// Package orchestrator implements the Orchestrator (C6): the single
// request lifecycle that resolves a session, invokes the Planner, dispatches
// to whichever tools the Decision names, composes the final language-model
// prompt, and persists the Turn. A single entry point wrapping dependency
// interfaces, built as a flat per-request pipeline rather than a goal-stack
// graph, since the decision here is a one-shot tagged variant rather than
// an interleaved multi-goal plan.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// Config tunes the Orchestrator.
type Config struct {
	// SystemPrompt is the fixed instruction block for the final-answer
	// language-model call.
	SystemPrompt string
	// ProductTopK bounds how many products search_products/hybrid attach.
	ProductTopK int
	// RequestTimeout bounds the whole request, per the 30s total budget.
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.ProductTopK <= 0 {
		c.ProductTopK = 5
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	return c
}

// Orchestrator drives one request end to end.
type Orchestrator struct {
	sessions domain.SessionStore
	planner  domain.Planner
	calc     domain.Calculator
	products domain.ProductIndex
	outlets  domain.OutletGate
	llm      domain.LanguageModel
	cfg      Config
}

func New(
	sessions domain.SessionStore,
	planner domain.Planner,
	calc domain.Calculator,
	products domain.ProductIndex,
	outlets domain.OutletGate,
	llm domain.LanguageModel,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		planner:  planner,
		calc:     calc,
		products: products,
		outlets:  outlets,
		llm:      llm,
		cfg:      cfg.withDefaults(),
	}
}

// Handle runs the full per-request lifecycle in §4.6 order.
func (o *Orchestrator) Handle(ctx context.Context, q domain.Question) (domain.ResponseEnvelope, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return domain.ResponseEnvelope{}, domain.ErrEmptyQuestion
	}

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	sessionID := q.SessionID
	if _, err := o.sessions.GetOrCreate(ctx, sessionID); err != nil {
		return domain.ResponseEnvelope{}, fmt.Errorf("resolve session: %w", err)
	}

	snapshot, err := o.sessions.Snapshot(ctx, sessionID)
	if err != nil {
		return domain.ResponseEnvelope{}, fmt.Errorf("snapshot session: %w", err)
	}

	decision, err := o.planner.Plan(text, snapshot)
	if err != nil {
		return domain.ResponseEnvelope{}, fmt.Errorf("plan: %w", err)
	}

	result := o.dispatch(ctx, text, decision)

	answer, err := o.composeAnswer(ctx, text, snapshot, decision, result)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("orchestrator: final answer composition failed")
		answer = fallbackAnswer(decision, result)
	}

	if ctx.Err() != nil {
		return domain.ResponseEnvelope{}, ctx.Err()
	}

	if err := o.persistTurn(ctx, sessionID, text, answer, decision, result); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("orchestrator: failed to persist turn")
	}

	return domain.ResponseEnvelope{
		Response:     answer,
		SessionID:    sessionID,
		Decision:     decision,
		Calculation:  result.calc,
		ProductCount: len(result.products),
		OutletCount:  result.outletCount,
	}, nil
}

// dispatchResult carries whatever the dispatched tools produced, regardless
// of branch. Zero-valued fields simply mean that tool was not invoked.
type dispatchResult struct {
	calc        *domain.CalcResult
	products    []domain.ScoredProduct
	outlet      domain.OutletAnswer
	outletCount int
}

// dispatch is the total match over Decision.PrimaryAction the design notes
// require: exactly the six variants, no default branch.
func (o *Orchestrator) dispatch(ctx context.Context, question string, d domain.Decision) dispatchResult {
	switch d.PrimaryAction {
	case domain.ActionCalculate:
		return dispatchResult{calc: o.runCalculate(question)}

	case domain.ActionSearchProducts:
		return dispatchResult{products: o.runProducts(ctx, question, d.Entities.SortKey)}

	case domain.ActionSearchOutlets:
		answer := o.outlets.Answer(ctx, question)
		return dispatchResult{outlet: answer, outletCount: answer.Count}

	case domain.ActionHybrid:
		return o.runHybrid(ctx, question, d)

	case domain.ActionClarify:
		return dispatchResult{}

	case domain.ActionAnswerDirectly:
		return dispatchResult{}
	}
	return dispatchResult{}
}

func (o *Orchestrator) runCalculate(question string) *domain.CalcResult {
	res := o.calc.ParseAndCalculate(question)
	return &res
}

func (o *Orchestrator) runProducts(ctx context.Context, question, sortKey string) []domain.ScoredProduct {
	var (
		results []domain.ScoredProduct
		err     error
	)
	if sortKey != "" {
		results, err = o.products.SearchSorted(ctx, question, o.cfg.ProductTopK, sortKey)
	} else {
		results, err = o.products.Search(ctx, question, o.cfg.ProductTopK)
	}
	if err != nil {
		log.Warn().Err(err).Msg("orchestrator: product search failed, degrading to empty block")
		return nil
	}
	return results
}

// runHybrid dispatches both retrieval tools in parallel and, when the
// calculate score also crossed its threshold, the calculator as well.
func (o *Orchestrator) runHybrid(ctx context.Context, question string, d domain.Decision) dispatchResult {
	var result dispatchResult
	if d.CalculateScore >= 0.6 {
		result.calc = o.runCalculate(question)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result.products = o.runProducts(groupCtx, question, d.Entities.SortKey)
		return nil
	})
	group.Go(func() error {
		result.outlet = o.outlets.Answer(groupCtx, question)
		result.outletCount = result.outlet.Count
		return nil
	})
	_ = group.Wait()
	return result
}

func fallbackAnswer(d domain.Decision, result dispatchResult) string {
	if d.PrimaryAction == domain.ActionClarify {
		return d.ClarificationPrompt
	}
	return "I ran into a problem putting together a full answer. Here is what I found: " + summarizeResult(result)
}

func summarizeResult(result dispatchResult) string {
	var parts []string
	if result.calc != nil {
		parts = append(parts, fmt.Sprintf("calculation %s", result.calc.Formatted))
	}
	if len(result.products) > 0 {
		parts = append(parts, fmt.Sprintf("%d matching products", len(result.products)))
	}
	if result.outlet.FormattedText != "" {
		parts = append(parts, result.outlet.FormattedText)
	}
	if len(parts) == 0 {
		return "nothing specific."
	}
	return strings.Join(parts, "; ")
}

func (o *Orchestrator) persistTurn(ctx context.Context, sessionID, question, answer string, d domain.Decision, result dispatchResult) error {
	turn := domain.Turn{
		UserText:      question,
		AssistantText: answer,
		Decision:      d,
		At:            time.Now(),
	}
	if err := o.sessions.AppendTurn(ctx, sessionID, turn); err != nil {
		return err
	}

	if err := o.sessions.UpdateMetadata(ctx, sessionID, domain.MetaLastPrimaryAction, string(d.PrimaryAction)); err != nil {
		return err
	}
	if d.PrimaryAction == domain.ActionSearchProducts || (d.PrimaryAction == domain.ActionHybrid && len(result.products) > 0) {
		if err := o.sessions.UpdateMetadata(ctx, sessionID, domain.MetaLastProductQuery, question); err != nil {
			return err
		}
	}
	if d.PrimaryAction == domain.ActionSearchOutlets || (d.PrimaryAction == domain.ActionHybrid && result.outlet.FormattedText != "") {
		if err := o.sessions.UpdateMetadata(ctx, sessionID, domain.MetaLastOutletQuery, question); err != nil {
			return err
		}
	}
	if d.Entities.SortKey != "" {
		if err := o.sessions.UpdateMetadata(ctx, sessionID, domain.MetaPreferredSort, d.Entities.SortKey); err != nil {
			return err
		}
	}
	return nil
}

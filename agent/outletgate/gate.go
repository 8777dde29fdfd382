// Package outletgate implements the Outlet SQL Gate (C3): it turns a
// natural-language outlet question into a single validated SELECT against a
// fixed 'outlets' schema, executes it with a bounded timeout, and formats
// the rows. Grounded in the original text-to-SQL service's generate/execute
// split and the outlet-info service's formatting and fallback-search
// cascade, rebuilt against the eino prompt->model graph (agent/llmgraph)
// and a domain.RowExecutor instead of a REST data-API client.
package outletgate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

const (
	defaultTimeout = 5 * time.Second
	rowCap         = 20
)

// Config tunes the Gate. Timeout defaults to 5s per request, matching the
// execution budget.
type Config struct {
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Gate is the concrete domain.OutletGate implementation.
type Gate struct {
	llm       domain.LanguageModel
	rows      domain.RowExecutor
	sqlPrompt string
	timeout   time.Duration
}

var _ domain.OutletGate = (*Gate)(nil)

func New(llm domain.LanguageModel, rows domain.RowExecutor, sqlPrompt string, cfg Config) *Gate {
	cfg = cfg.withDefaults()
	return &Gate{llm: llm, rows: rows, sqlPrompt: sqlPrompt, timeout: cfg.Timeout}
}

// Answer runs the full gate pipeline. It never returns an error: failures
// are captured into the returned OutletAnswer's Kind/Err fields so the
// Orchestrator can degrade gracefully per the tool-error policy.
func (g *Gate) Answer(ctx context.Context, question string) domain.OutletAnswer {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	sql, genErr := g.generateSQL(ctx, question)
	if genErr == nil && !validateSQL(sql) {
		log.Warn().Str("sql", sql).Msg("outlet gate: generated statement failed validation, regenerating")
		sql, genErr = g.generateSQL(ctx, question)
		if genErr == nil && !validateSQL(sql) {
			return g.degrade(ctx, question, domain.ErrSQLValidation)
		}
	}
	if genErr != nil {
		return g.degrade(ctx, question, genErr)
	}

	answer, execErr := g.execute(ctx, question, sql)
	if execErr == nil {
		return answer
	}

	log.Warn().Err(execErr).Str("sql", sql).Msg("outlet gate: execution failed, regenerating once")
	sql, genErr = g.generateSQL(ctx, question)
	if genErr != nil || !validateSQL(sql) {
		return g.degrade(ctx, question, domain.ErrSQLExecution)
	}
	answer, execErr = g.execute(ctx, question, sql)
	if execErr == nil {
		return answer
	}

	return g.degrade(ctx, question, domain.ErrSQLExecution)
}

func (g *Gate) execute(ctx context.Context, question, sql string) (domain.OutletAnswer, error) {
	if isCountStatement(sql) {
		count, err := g.rows.Count(ctx, sql)
		if err != nil {
			return domain.OutletAnswer{}, err
		}
		return domain.OutletAnswer{
			Kind:         domain.OutletKindCount,
			Count:        count,
			FormattedText: formatCount(count, sql),
			SQL:          sql,
		}, nil
	}

	rows, err := g.rows.Query(ctx, sql)
	if err != nil {
		return domain.OutletAnswer{}, err
	}
	total := len(rows)
	capped := rows
	if total > rowCap {
		capped = rows[:rowCap]
	}
	if total == 0 {
		return domain.OutletAnswer{Kind: domain.OutletKindEmpty, FormattedText: "No outlets found matching your criteria.", SQL: sql}, nil
	}

	kind := domain.OutletKindList
	if total == 1 {
		kind = domain.OutletKindSingle
	}
	return domain.OutletAnswer{
		Kind:         kind,
		Rows:         capped,
		Count:        total,
		FormattedText: formatRows(capped, total, rowCap, isMapsRequest(question, sql)),
		SQL:          sql,
	}, nil
}

// degrade falls through to the non-LLM fallback cascade before finally
// yielding kind=error with a safe explanation.
func (g *Gate) degrade(ctx context.Context, question string, cause error) domain.OutletAnswer {
	rows, strategy := g.fallbackSearch(ctx, question)
	if len(rows) > 0 {
		log.Info().Str("strategy", strategy).Msg("outlet gate: served fallback search result")
		return domain.OutletAnswer{
			Kind:         domain.OutletKindList,
			Rows:         rows,
			Count:        len(rows),
			FormattedText: formatRows(rows, len(rows), rowCap, false),
		}
	}
	log.Error().Err(cause).Msg("outlet gate: degraded to error after fallback search found nothing")
	return domain.OutletAnswer{
		Kind:         domain.OutletKindError,
		FormattedText: "Outlets available across Kuala Lumpur and Selangor regions.",
		Err:          cause,
	}
}

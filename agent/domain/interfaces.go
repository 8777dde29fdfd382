package domain

import (
	"context"
	"time"
)

// Planner produces a Decision for an incoming question plus a read-only
// snapshot of the asking session. The Planner is pure: same inputs, same
// Decision, byte for byte. It must never be given a mutable reference to a
// Session — only a snapshot taken before planning.
type Planner interface {
	Plan(question string, snapshot Session) (Decision, error)
}

// Calculator evaluates arithmetic safely, without an unrestricted
// runtime-eval facility.
type Calculator interface {
	DetectIntent(text string) (bool, string)
	ParseAndCalculate(text string) CalcResult
	Calculate(expression string) CalcResult
}

// Embedder converts free text into a deterministic dense vector of fixed
// dimension. Swapping embedders requires a full re-build of the Product
// Index.
type Embedder interface {
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// ProductIndex serves top-k semantic search over the catalog with an
// optional deterministic secondary sort.
type ProductIndex interface {
	Build(ctx context.Context, catalog []Product) error
	Search(ctx context.Context, query string, k int) ([]ScoredProduct, error)
	SearchSorted(ctx context.Context, query string, k int, sortKey string) ([]ScoredProduct, error)
	Len() int
}

// OutletGate translates a natural-language outlet question into a single
// validated SELECT, executes it, and formats the rows.
type OutletGate interface {
	Answer(ctx context.Context, question string) OutletAnswer
}

// SessionStore owns all Sessions exclusively; the Orchestrator borrows them
// by reference and only mutates them through this interface.
type SessionStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*Session, error)
	AppendTurn(ctx context.Context, sessionID string, turn Turn) error
	Snapshot(ctx context.Context, sessionID string) (Session, error)
	UpdateMetadata(ctx context.Context, sessionID, key, value string) error
	EvictExpired(now time.Time) int
	Len() int
}

// LanguageModel is the abstract `complete(prompt) -> text` capability the
// Orchestrator and the Outlet SQL Gate depend on. A production
// implementation talks to a remote service; a test implementation returns
// a scripted reply.
type LanguageModel interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RowExecutor is the `query(sql) -> rows` capability the Outlet SQL Gate
// depends on in addition to LanguageModel. Count runs a COUNT(*)-shaped
// statement and returns the scalar directly, since a count result does not
// fit the Outlet row shape.
type RowExecutor interface {
	Query(ctx context.Context, sql string) ([]Outlet, error)
	Count(ctx context.Context, sql string) (int, error)
}

// Package domain holds the core data model shared by every component of
// the agentic request pipeline: the planner's Decision record, the
// session/turn model, the catalog and outlet row shapes, and the
// calculator's result type.
package domain

import "time"

// PrimaryAction is the tagged variant the Planner emits. The Orchestrator's
// dispatch is a total match over these six cases.
type PrimaryAction string

const (
	ActionSearchProducts PrimaryAction = "search_products"
	ActionSearchOutlets  PrimaryAction = "search_outlets"
	ActionCalculate      PrimaryAction = "calculate"
	ActionHybrid         PrimaryAction = "hybrid"
	ActionClarify        PrimaryAction = "clarify"
	ActionAnswerDirectly PrimaryAction = "answer_directly"
)

// Question is the inbound record carrying the raw user text, an optional
// session identifier, and an optional client-supplied hint (ignored by the
// core).
type Question struct {
	Text      string
	SessionID string
	Hint      string
}

// EntityFlags are the boolean signals the Planner extracts from a question
// before scoring.
type EntityFlags struct {
	HasNumbers          bool
	HasOperators        bool
	HasMathExpression   bool
	ProductKeywordsHit  int
	OutletKeywordsHit   int
	LocationMentioned   bool
	ReferencesPriorTurn bool
	SortKey             string // "", cheapest, most_expensive, largest, smallest
	CountIntent         bool
}

// Decision is the Planner's immutable output record for one question.
type Decision struct {
	PrimaryAction        PrimaryAction
	Confidence           float64
	Reasoning            string
	Entities             EntityFlags
	Missing              []string
	ExecutionPlan        []string
	ClarificationPrompt  string
	CalculateScore       float64
	ProductsScore        float64
	OutletsScore         float64
	HybridScore          float64
}

// Turn is a single user/assistant exchange plus the Decision that produced
// it. Turns are append-only within a Session.
type Turn struct {
	UserText      string
	AssistantText string
	Decision      Decision
	At            time.Time
}

// Session is the per-conversation state held by the Session Store. Turns is
// bounded to length W (newest last); Metadata holds the recognized keys
// last_primary_action, last_product_query, last_outlet_query,
// preferred_sort.
type Session struct {
	ID           string
	Turns        []Turn
	Metadata     map[string]string
	CreatedAt    time.Time
	LastActivity time.Time
}

// Recognized Session metadata keys.
const (
	MetaLastPrimaryAction = "last_primary_action"
	MetaLastProductQuery  = "last_product_query"
	MetaLastOutletQuery   = "last_outlet_query"
	MetaPreferredSort     = "preferred_sort"
)

// Product is a catalog entry, loaded once at startup from an external file
// and never mutated by the core.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	CapacityML  *int
	Tags        []string
}

// SearchableText is the deterministic text an Embedder consumes to produce
// a Product's embedding.
func (p Product) SearchableText() string {
	text := p.Name + ". " + p.Description
	for _, t := range p.Tags {
		text += " " + t
	}
	return text
}

// ScoredProduct pairs a Product with its similarity score for one query.
type ScoredProduct struct {
	Product Product
	Score   float64
}

// SortKey values recognized by search_sorted / sort-key detection.
const (
	SortCheapest      = "cheapest"
	SortMostExpensive = "most_expensive"
	SortLargest       = "largest"
	SortSmallest      = "smallest"
)

// Outlet is a read-only row from the relational outlet store.
type Outlet struct {
	ID               int64
	Name             string
	Address          string
	City             string
	State            string
	PostalCode       string
	MapsURL          string
	LocationCategory string
	Source           string
	FetchedAt        time.Time
}

// OutletResultKind tags the shape of an Outlet SQL Gate answer.
type OutletResultKind string

const (
	OutletKindList  OutletResultKind = "list"
	OutletKindCount OutletResultKind = "count"
	OutletKindSingle OutletResultKind = "single"
	OutletKindEmpty OutletResultKind = "empty"
	OutletKindError OutletResultKind = "error"
)

// OutletAnswer is the Outlet SQL Gate's structured response.
type OutletAnswer struct {
	Kind         OutletResultKind
	Rows         []Outlet
	Count        int
	FormattedText string
	SQL          string
	Err          error
}

// CalcErrorKind enumerates the Calculator's failure classification.
type CalcErrorKind string

const (
	CalcErrNone          CalcErrorKind = ""
	CalcErrNoExpression  CalcErrorKind = "no_expression"
	CalcErrInvalidChars  CalcErrorKind = "invalid_chars"
	CalcErrSyntax        CalcErrorKind = "syntax"
	CalcErrDivideByZero  CalcErrorKind = "divide_by_zero"
	CalcErrOverflow      CalcErrorKind = "overflow"
	CalcErrOther         CalcErrorKind = "other"
)

// CalcResult is the Calculator's tagged result record. A false Ok never
// carries a numeric Value.
type CalcResult struct {
	Ok           bool
	Expression   string
	Value        float64
	Formatted    string
	ErrorKind    CalcErrorKind
	ErrorMessage string
}

// ResponseEnvelope is what the Boundary emits for a chat request.
type ResponseEnvelope struct {
	Response     string
	SessionID    string
	Decision     Decision
	Calculation  *CalcResult
	ProductCount int
	OutletCount  int
}

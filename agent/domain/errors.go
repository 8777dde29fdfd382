package domain

import "errors"

// Sentinel errors shared across the pipeline, wrapped with %w at each
// layer so callers can classify a failure with errors.Is without parsing
// strings. These map onto the four error classes in the error-handling
// design: user-input, tool, resource, fatal.
var (
	// User-input errors (400-class): reported verbatim to the client, no retry.
	ErrEmptyQuestion    = errors.New("question is empty")
	ErrInvalidSessionID = errors.New("session id has an invalid format")
	ErrUnparseableExpr  = errors.New("expression could not be parsed")

	// Tool errors (recoverable): at most one regeneration/retry per tool
	// per request before the Orchestrator degrades.
	ErrSQLValidation  = errors.New("generated statement failed validation")
	ErrSQLExecution   = errors.New("outlet query execution failed")
	ErrEmbedding      = errors.New("embedding computation failed")
	ErrModelTransient = errors.New("language model call failed")

	// Resource errors: reported as 503 with a retry_after_ms hint.
	ErrRateLimited       = errors.New("rate limit exhausted")
	ErrPoolExhausted     = errors.New("connection pool exhausted")
	ErrDeadlineExceeded  = errors.New("per-call deadline exceeded")

	// Fatal errors (500): logged with the Decision for forensics.
	ErrSessionNotFound = errors.New("session not found")
	ErrPlannerBug      = errors.New("planner invariant violated")
)

package llmgraph

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// queueWait bounds how long a call will sit waiting for a token before it
// fails fast, independent of the caller's own request deadline.
const queueWait = 10 * time.Second

// RateLimited wraps a domain.LanguageModel behind a token-bucket limiter,
// so a burst of concurrent hybrid requests can't exceed the upstream
// model's call-rate budget. A call queues for a token for at most
// queueWait before giving up, even if the caller's own context allows more
// time.
type RateLimited struct {
	inner   domain.LanguageModel
	limiter *rate.Limiter
}

var _ domain.LanguageModel = (*RateLimited)(nil)

// NewRateLimited allows up to ratePerSecond calls/sec to inner, with a
// burst of burst calls before throttling kicks in.
func NewRateLimited(inner domain.LanguageModel, ratePerSecond float64, burst int) *RateLimited {
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

func (r *RateLimited) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, queueWait)
	defer cancel()
	if err := r.limiter.Wait(waitCtx); err != nil {
		return "", fmt.Errorf("%w: exceeded %s queue wait: %v", domain.ErrRateLimited, queueWait, err)
	}
	return r.inner.Complete(ctx, systemPrompt, userPrompt)
}

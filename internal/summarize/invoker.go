package summarize

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chuqudee-sand/feedback-summarizer/provider"
)

// QuotaExhaustedText is returned in place of model output when every
// retry attempt hits a rate limit. Downstream normalization turns it
// into a visible record instead of aborting the request.
const QuotaExhaustedText = "quota exhausted"

// Invoker wraps a provider with bounded retry on rate-limit-class
// failures. Any other failure propagates immediately.
type Invoker struct {
	Provider    provider.Provider
	MaxAttempts int
	Logger      *log.Logger

	// sleep is swapped out in tests; nil means context-aware time.After.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewInvoker builds an Invoker with the spec'd attempt bound.
func NewInvoker(p provider.Provider, maxAttempts int, logger *log.Logger) *Invoker {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[INVOKER] ", log.LstdFlags)
	}
	return &Invoker{Provider: p, MaxAttempts: maxAttempts, Logger: logger}
}

// backoffDelay returns 2^attempt + 3 seconds for the 1-based attempt
// that just failed. Non-jittered.
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)+3) * time.Second
}

// Invoke sends the prompt and returns the raw response text. Rate-limit
// failures are retried up to MaxAttempts with exponential backoff; when
// all attempts are exhausted the QuotaExhaustedText sentinel is
// returned with a nil error so the caller can report it inline.
func (iv *Invoker) Invoke(ctx context.Context, prompt string, options map[string]interface{}) (string, error) {
	sleep := iv.sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) error {
			select {
			case <-time.After(d):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	var lastErr error
	for attempt := 1; attempt <= iv.MaxAttempts; attempt++ {
		modelInvocationsTotal.Inc()
		out, err := iv.Provider.Generate(ctx, prompt, options)
		if err == nil {
			return out, nil
		}
		if !provider.IsRateLimited(err) {
			return "", fmt.Errorf("model invocation failed: %w", err)
		}
		lastErr = err
		if attempt < iv.MaxAttempts {
			d := backoffDelay(attempt)
			iv.Logger.Printf("rate limited (attempt %d/%d), retrying in %s: %v", attempt, iv.MaxAttempts, d, err)
			modelRetriesTotal.Inc()
			if err := sleep(ctx, d); err != nil {
				return "", err
			}
		}
	}

	iv.Logger.Printf("rate limit retries exhausted after %d attempts: %v", iv.MaxAttempts, lastErr)
	return QuotaExhaustedText, nil
}

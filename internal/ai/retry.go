package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// maxRateLimitRetries is how many additional attempts follow a rate-limited
// call. Other error classes are never retried.
const maxRateLimitRetries = 2

// BackoffFunc returns the sleep before retry number attempt (1-based).
// Injectable so tests can run retries without wall-clock delay.
type BackoffFunc func(attempt int) time.Duration

// DefaultBackoff escalates linearly: 30s, 60s.
func DefaultBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 30 * time.Second
}

// retryingProvider decorates a ModelProvider with rate-limit retry.
type retryingProvider struct {
	base           models.ModelProvider
	backoff        BackoffFunc
	attemptTimeout time.Duration
}

// WithRetry wraps a provider so that rate-limit-class failures are retried
// with escalating backoff. A nil backoff uses DefaultBackoff. The timeout
// bounds each individual attempt, not the whole retry chain, so backoff
// sleeps never eat into the budget of the next call; zero disables it.
func WithRetry(base models.ModelProvider, backoff BackoffFunc, attemptTimeout time.Duration) models.ModelProvider {
	if backoff == nil {
		backoff = DefaultBackoff
	}
	return &retryingProvider{base: base, backoff: backoff, attemptTimeout: attemptTimeout}
}

func (r *retryingProvider) Name() string  { return r.base.Name() }
func (r *retryingProvider) Model() string { return r.base.Model() }

func (r *retryingProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		out, err := r.generateOnce(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if !IsRateLimit(err) || attempt >= maxRateLimitRetries {
			return "", err
		}
		lastErr = err

		delay := r.backoff(attempt + 1)
		slog.Warn("rate limited, backing off",
			"provider", r.base.Name(),
			"attempt", attempt+1,
			"delay", delay,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", errors.Join(ctx.Err(), lastErr)
		}
	}
}

// generateOnce runs a single attempt under its own deadline.
func (r *retryingProvider) generateOnce(ctx context.Context, prompt string) (string, error) {
	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}
	return r.base.Generate(ctx, prompt)
}

// IsRateLimit reports whether an error belongs to the rate-limit class.
// Besides the sentinel it matches known backend signatures so providers that
// only surface raw messages are still retried.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, models.ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}

var _ models.ModelProvider = (*retryingProvider)(nil)

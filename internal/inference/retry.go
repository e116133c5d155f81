package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const maxBackoff = 30 * time.Second

type retrying struct {
	inner   Provider
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// WithRetry wraps p so transient failures are retried up to retries
// additional times with exponential backoff and jitter. Non-transient
// failures and context cancellation return immediately.
func WithRetry(p Provider, retries int, backoff time.Duration, logger *slog.Logger) Provider {
	if retries <= 0 {
		return p
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &retrying{
		inner:   p,
		retries: retries,
		backoff: backoff,
		logger:  logger,
	}
}

func (r *retrying) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(r.backoff, attempt)
			r.logger.WarnContext(
				ctx, "retrying provider call",
				"attempt", attempt,
				"delay", delay,
				"error", lastErr,
			)

			select {
			case <-ctx.Done():
				return "", classify(ctx.Err(), r.inner.Name())
			case <-time.After(delay):
			}
		}

		out, err := r.inner.Complete(ctx, prompt)
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !Transient(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("%d retries exhausted: %w", r.retries, lastErr)
}

func (r *retrying) Name() string {
	return r.inner.Name()
}

func (r *retrying) Ping(ctx context.Context) error {
	return Ping(ctx, r.inner)
}

// Transient reports whether a provider failure is worth retrying. Timeouts
// and rate-limit or server-side API errors are transient; credential and
// request errors are not, and neither is caller cancellation.
func Transient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrProviderTimeout) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return true
		}
		return false
	}

	return errors.Is(err, ErrProvider)
}

// backoffDelay doubles the base delay per attempt, caps it, and adds up to
// 25% jitter to avoid synchronized retries.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base << (attempt - 1)
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}

	jitter := time.Duration(rand.Int64N(int64(delay)/4 + 1))
	return delay + jitter
}

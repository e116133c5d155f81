package inference

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type gated struct {
	inner Provider
	sem   *semaphore.Weighted
}

// WithGate wraps p with a weighted semaphore so at most maxConcurrent calls
// are in flight at once. Waiting callers abort on context cancellation.
func WithGate(p Provider, maxConcurrent int) Provider {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &gated{
		inner: p,
		sem:   semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

func (g *gated) Complete(ctx context.Context, prompt string) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", classify(err, g.inner.Name())
	}
	defer g.sem.Release(1)

	return g.inner.Complete(ctx, prompt)
}

func (g *gated) Name() string {
	return g.inner.Name()
}

func (g *gated) Ping(ctx context.Context) error {
	return Ping(ctx, g.inner)
}

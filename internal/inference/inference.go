// Package inference provides the LLM provider abstraction used by the
// workflow engine: an OpenAI-compatible chat client, a go-agents backed
// client, retry and concurrency-gate decorators, and a scripted stub.
package inference

import "context"

// Provider issues one chat completion per call. Implementations classify
// failures as ErrProvider or ErrProviderTimeout and respect context
// cancellation.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Pinger reports provider reachability for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping probes p when it supports reachability checks, unwinding decorators
// as needed. Providers without a ping surface are assumed reachable.
func Ping(ctx context.Context, p Provider) error {
	if pinger, ok := p.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

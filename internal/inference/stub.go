package inference

import (
	"context"
	"fmt"
	"sync"
)

// ScriptStep is one scripted stub outcome: a response or an error.
type ScriptStep struct {
	Response string
	Err      error
}

// Stub is a deterministic Provider for tests and offline runs. It replays
// scripted steps in call order; once the script runs out, the final step
// repeats. Stub is safe for concurrent use.
type Stub struct {
	mu      sync.Mutex
	script  []ScriptStep
	calls   int
	prompts []string
}

// NewStub creates a Stub that returns the given responses in order.
func NewStub(responses ...string) *Stub {
	steps := make([]ScriptStep, len(responses))
	for i, r := range responses {
		steps[i] = ScriptStep{Response: r}
	}
	return &Stub{script: steps}
}

// NewScriptedStub creates a Stub from explicit steps, allowing errors to be
// interleaved with responses.
func NewScriptedStub(steps ...ScriptStep) *Stub {
	return &Stub{script: steps}
}

// Complete replays the next scripted step.
func (s *Stub) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(err, s.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, prompt)
	s.calls++

	if len(s.script) == 0 {
		return "", fmt.Errorf("%w: stub has no scripted responses", ErrProvider)
	}

	step := s.script[min(s.calls-1, len(s.script)-1)]
	if step.Err != nil {
		return "", step.Err
	}
	return step.Response, nil
}

// Name identifies the provider for logging and health reporting.
func (s *Stub) Name() string {
	return "stub"
}

// Calls returns the number of Complete invocations so far.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Prompts returns the prompts received so far, in call order.
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

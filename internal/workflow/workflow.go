package workflow

import (
	"context"
	"fmt"
	"runtime"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"golang.org/x/sync/errgroup"

	"github.com/sharanyaa23/DocSense/internal/tasks"
)

type disposition int

const (
	pending disposition = iota
	accepted
	retrying
	escalating
	exhausted
)

// execution is the mutable state of one run, shared by the graph nodes
// through their closures. The attempt history is append-only.
type execution struct {
	kind tasks.Kind
	task tasks.Task
	run  *tasks.Run
	plan *tasks.Plan

	output      string
	strategy    string
	attempts    []Attempt
	retries     int
	escalations int
	disposition disposition
	value       any
}

// Execute runs the workflow for one task request: it builds the state graph
// (init → prepare → infer → validate, with validate looping back to infer on
// retry and to prepare on escalation), executes it, and returns the accepted
// result. Budget exhaustion returns an *ExhaustedError carrying the full
// attempt history; the caller never receives a validator-rejected value.
func Execute(ctx context.Context, rt *Runtime, kind tasks.Kind, req *tasks.Request) (*Result, error) {
	task, err := rt.Tasks.Get(kind)
	if err != nil {
		return nil, err
	}

	exec := &execution{
		kind:     kind,
		task:     task,
		run:      &tasks.Run{Request: req},
		strategy: StrategyInitial,
	}

	graph, err := buildGraph(rt, exec)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	if _, err := graph.Execute(ctx, state.New(nil)); err != nil {
		return nil, fmt.Errorf("%s workflow: %w", kind, err)
	}

	if exec.disposition == exhausted {
		return nil, &ExhaustedError{Kind: kind, Attempts: exec.attempts}
	}

	return &Result{
		Kind:        kind,
		DocumentID:  req.Document.ID,
		Value:       exec.value,
		Attempts:    exec.attempts,
		Retries:     exec.retries,
		Escalations: exec.escalations,
		CompletedAt: time.Now(),
	}, nil
}

func buildGraph(rt *Runtime, exec *execution) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig(fmt.Sprintf("docsense-%s", exec.kind))
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", initNode(rt, exec)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("prepare", prepareNode(rt, exec)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("infer", inferNode(rt, exec)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("validate", validateNode(rt, exec)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("resolve", resolveNode(rt, exec)); err != nil {
		return nil, err
	}

	settled := func(state.State) bool {
		return exec.disposition == accepted || exec.disposition == exhausted
	}
	retry := func(state.State) bool { return exec.disposition == retrying }
	escalate := func(state.State) bool { return exec.disposition == escalating }

	// init → resolve (analyzer short-circuit, no inference)
	if err := graph.AddEdge("init", "resolve", settled); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("init", "prepare", state.Not(settled)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("prepare", "infer", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("infer", "validate", nil); err != nil {
		return nil, err
	}
	// validate → infer (retry with repair hint)
	if err := graph.AddEdge("validate", "infer", retry); err != nil {
		return nil, err
	}
	// validate → prepare (escalation re-plans with broadened context)
	if err := graph.AddEdge("validate", "prepare", escalate); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("validate", "resolve", settled); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("resolve"); err != nil {
		return nil, err
	}

	return graph, nil
}

// initNode validates the request, chunks the document(s), runs the task's
// analyzer when it has one, and honors an analyzer short circuit.
func initNode(rt *Runtime, exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		req := exec.run.Request

		if err := tasks.ValidateRequest(exec.kind, req); err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		if err := req.Document.Chunk(rt.Chunker.Size, rt.Chunker.Overlap); err != nil {
			return s, fmt.Errorf("init: %w", err)
		}
		exec.run.Chunks = req.Document.Chunks

		if req.Secondary != nil {
			if err := req.Secondary.Chunk(rt.Chunker.Size, rt.Chunker.Overlap); err != nil {
				return s, fmt.Errorf("init: %w", err)
			}
			exec.run.SecondaryChunks = req.Secondary.Chunks
		}

		if analyzer, ok := exec.task.(tasks.Analyzer); ok {
			analysis, err := analyzer.Analyze(ctx, exec.run)
			if err != nil {
				return s, fmt.Errorf("init: analyze: %w", err)
			}
			exec.run.Analysis = analysis
		}

		if sc, ok := exec.task.(tasks.ShortCircuiter); ok {
			if value, done := sc.ShortCircuit(exec.run); done {
				exec.value = value
				exec.disposition = accepted

				rt.Logger.InfoContext(
					ctx, "task short-circuited",
					"task", exec.kind,
					"document_id", req.Document.ID,
				)
				return s, nil
			}
		}

		rt.Logger.InfoContext(
			ctx, "task started",
			"task", exec.kind,
			"document_id", req.Document.ID,
			"chunks", len(exec.run.Chunks),
		)
		return s, nil
	})
}

// prepareNode asks the task for this round's chunk subset. Escalated runs
// re-enter here so the plan reflects the broadened context.
func prepareNode(rt *Runtime, exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		plan, err := exec.task.Prepare(exec.run)
		if err != nil {
			return s, fmt.Errorf("prepare: %w", err)
		}

		exec.plan = plan
		exec.run.Selected = plan.Chunks
		return s, nil
	})
}

// inferNode runs one inference round: a single prompt over the selection, or
// a per-chunk fan-out merged in chunk-index order for tasks that declare it.
// Provider failures abort the run after being recorded in the history.
func inferNode(rt *Runtime, exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		exec.disposition = pending
		exec.run.Attempt = len(exec.attempts) + 1

		output, err := runInference(ctx, rt, exec)
		if err != nil {
			exec.attempts = append(exec.attempts, Attempt{
				Number:     exec.run.Attempt,
				Strategy:   exec.strategy,
				Chunks:     exec.plan.Indices(),
				Validation: tasks.ValidationResult{Reason: err.Error()},
			})
			return s, fmt.Errorf("infer: %w", err)
		}

		exec.output = output
		return s, nil
	})
}

func runInference(ctx context.Context, rt *Runtime, exec *execution) (string, error) {
	merger, fanOut := exec.task.(tasks.Merger)
	if !fanOut || !exec.plan.FanOut || len(exec.plan.Chunks) < 2 {
		prompt, err := exec.task.BuildPrompt(exec.run, nil)
		if err != nil {
			return "", err
		}
		return rt.Provider.Complete(ctx, prompt)
	}

	outputs := make([]string, len(exec.plan.Chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(exec.plan.Chunks)))

	for i := range exec.plan.Chunks {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			chunk := exec.plan.Chunks[i]
			prompt, err := exec.task.BuildPrompt(exec.run, &chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.Index, err)
			}

			out, err := rt.Provider.Complete(gctx, prompt)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", chunk.Index, err)
			}

			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return merger.Merge(outputs)
}

// validateNode runs the task validator, records the attempt, and decides the
// disposition under the engine budgets. A validator demanding escalation
// skips remaining retries; otherwise retries are spent before escalation.
func validateNode(rt *Runtime, exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		vr := exec.task.Validate(exec.run, exec.output)
		strategy := exec.strategy

		exec.attempts = append(exec.attempts, Attempt{
			Number:     exec.run.Attempt,
			Strategy:   exec.strategy,
			Chunks:     exec.plan.Indices(),
			Output:     exec.output,
			Validation: vr,
		})

		switch {
		case vr.Passed:
			value, err := exec.task.Finalize(exec.run, exec.output)
			if err != nil {
				return s, fmt.Errorf("finalize: %w", err)
			}
			exec.value = value
			exec.disposition = accepted

		case !vr.Escalate && exec.retries < rt.Engine.RetryLimit:
			exec.retries++
			exec.strategy = StrategyRetry
			exec.run.Hint = vr.Hint
			exec.disposition = retrying

		case exec.escalations < rt.Engine.EscalateLimit:
			exec.escalations++
			exec.strategy = StrategyEscalate
			exec.run.Hint = vr.Hint
			exec.run.Escalated = true
			exec.disposition = escalating

		default:
			exec.disposition = exhausted
		}

		rt.Logger.InfoContext(
			ctx, "attempt validated",
			"task", exec.kind,
			"attempt", exec.run.Attempt,
			"strategy", strategy,
			"passed", vr.Passed,
			"reason", vr.Reason,
		)
		return s, nil
	})
}

func resolveNode(rt *Runtime, exec *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		rt.Logger.InfoContext(
			ctx, "task resolved",
			"task", exec.kind,
			"accepted", exec.disposition == accepted,
			"attempts", len(exec.attempts),
			"retries", exec.retries,
			"escalations", exec.escalations,
		)
		return s, nil
	})
}

func workerCount(chunkCount int) int {
	return max(min(runtime.NumCPU(), chunkCount), 1)
}

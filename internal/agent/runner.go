package agent

import (
	"context"
	"fmt"

	"github.com/rahul/quill/internal/observability"
	"github.com/rahul/quill/internal/store"
	"github.com/rahul/quill/internal/tools"
)

// Run outcomes recorded in the index.
const (
	RunCompleted = "completed"
	RunAborted   = "aborted"
)

// Runner drives a plan against the operation registry one step at a
// time, pushing events to the sink as it goes. Logger and Index are
// optional; a nil value skips that concern.
type Runner struct {
	Registry *tools.Registry
	Logger   *observability.Logger
	Index    *store.IndexStore
}

func NewRunner(registry *tools.Registry, logger *observability.Logger, index *store.IndexStore) *Runner {
	return &Runner{Registry: registry, Logger: logger, Index: index}
}

// Run executes every step of the plan in order. Per step it emits a
// progress event and a start event, dispatches the operation, and
// emits a result event with the operation's Result verbatim. A
// backend-reported failure does not stop the plan; only a step naming
// an unregistered operation does, via an error event and no done
// event. Cancellation is cooperative: the context is polled between
// steps only, and a disconnected peer aborts silently. Each operation
// is attempted exactly once, with no timeout on the call itself.
func (r *Runner) Run(ctx context.Context, plan Plan, sink EventSink, documentID, title string) {
	total := len(plan)

	var runID int64
	if r.Index != nil {
		runID, _ = r.Index.StartRun(documentID, title, total)
	}
	if r.Logger != nil {
		r.Logger.LogPlan(documentID, total)
	}

	completed := 0
	finish := func(status string) {
		if r.Index != nil {
			_ = r.Index.FinishRun(runID, completed, status)
		}
	}

	for i, step := range plan {
		idx := i + 1

		select {
		case <-ctx.Done():
			finish(RunAborted)
			return
		default:
		}

		if err := sink.Send(Progress(idx, total, step.Label)); err != nil {
			finish(RunAborted)
			return
		}
		if err := sink.Send(StepStart(step.Tool, idx, step.Label)); err != nil {
			finish(RunAborted)
			return
		}

		if r.Registry.Get(step.Tool) == nil {
			_ = sink.Send(StepError(fmt.Sprintf("unknown operation: %s", step.Tool), idx))
			finish(RunAborted)
			return
		}

		if r.Logger != nil {
			r.Logger.LogStep(documentID, idx, total, step.Label)
		}

		// Dispatch is total: it yields a Result even when the handler
		// panics, so a step can never raise past this point.
		res := r.Registry.Dispatch(ctx, step.Tool, step.Params)
		completed++

		if r.Logger != nil {
			r.Logger.LogToolResult(documentID, step.Tool, res.Success)
		}

		if err := sink.Send(StepResult(step.Tool, idx, step.Label, res)); err != nil {
			finish(RunAborted)
			return
		}
	}

	_ = sink.Send(Done(documentID, title))
	if r.Index != nil {
		_ = r.Index.RecordDocument(documentID, title)
	}
	finish(RunCompleted)
}

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul/quill/internal/document"
	"github.com/rahul/quill/internal/tools"
)

// stubOp is a scriptable operation for driving the runner.
type stubOp struct {
	name    string
	execute func(ctx context.Context, params map[string]any) document.Result
}

func (o *stubOp) Name() string               { return o.name }
func (o *stubOp) Description() string        { return "stub" }
func (o *stubOp) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (o *stubOp) Execute(ctx context.Context, params map[string]any) document.Result {
	return o.execute(ctx, params)
}

// captureSink records every event; failAt makes Send fail on the n-th
// call (1-based) to simulate a dropped connection.
type captureSink struct {
	events []Event
	failAt int
}

func (s *captureSink) Send(evt Event) error {
	if s.failAt > 0 && len(s.events)+1 >= s.failAt {
		return errors.New("peer gone")
	}
	s.events = append(s.events, evt)
	return nil
}

func (s *captureSink) types() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

func okRegistry(names ...string) *tools.Registry {
	reg := tools.NewRegistry()
	for _, n := range names {
		reg.Register(&stubOp{name: n, execute: func(context.Context, map[string]any) document.Result {
			return document.Ok("done")
		}})
	}
	return reg
}

func TestRunnerHappyPath(t *testing.T) {
	reg := okRegistry("step_op")
	sink := &captureSink{}
	plan := Plan{
		{Tool: "step_op", Label: "one"},
		{Tool: "step_op", Label: "two"},
	}

	NewRunner(reg, nil, nil).Run(context.Background(), plan, sink, "doc_1", "Doc")

	require.Equal(t, []string{
		EventProgress, EventStart, EventResult,
		EventProgress, EventStart, EventResult,
		EventDone,
	}, sink.types())

	assert.Equal(t, "[1/2] one", sink.events[0].Message)
	assert.Equal(t, "[2/2] two", sink.events[3].Message)

	done := sink.events[len(sink.events)-1]
	assert.Equal(t, map[string]string{"filename": "doc_1", "title": "Doc"}, done.Data)
}

func TestRunnerUnknownOperationAborts(t *testing.T) {
	reg := okRegistry("known")
	sink := &captureSink{}
	plan := Plan{
		{Tool: "known", Label: "ok"},
		{Tool: "missing", Label: "bad"},
		{Tool: "known", Label: "never runs"},
	}

	NewRunner(reg, nil, nil).Run(context.Background(), plan, sink, "doc_1", "Doc")

	require.Equal(t, []string{
		EventProgress, EventStart, EventResult,
		EventProgress, EventStart, EventError,
	}, sink.types())

	errEvt := sink.events[len(sink.events)-1]
	assert.Equal(t, "unknown operation: missing", errEvt.Error)
	assert.Equal(t, 2, errEvt.Step)
}

func TestRunnerBackendFailureIsNonFatal(t *testing.T) {
	reg := tools.NewRegistry()
	reg.Register(&stubOp{name: "flaky", execute: func(context.Context, map[string]any) document.Result {
		return document.Fail("file not found: nope")
	}})
	sink := &captureSink{}
	plan := Plan{
		{Tool: "flaky", Label: "fails"},
		{Tool: "flaky", Label: "fails again"},
	}

	NewRunner(reg, nil, nil).Run(context.Background(), plan, sink, "doc_1", "Doc")

	types := sink.types()
	require.Equal(t, EventDone, types[len(types)-1])

	res, ok := sink.events[2].Data.(document.Result)
	require.True(t, ok)
	assert.False(t, res.Success)
	assert.Equal(t, "file not found: nope", res.Error)
}

func TestRunnerCancelBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reg := tools.NewRegistry()
	reg.Register(&stubOp{name: "canceller", execute: func(context.Context, map[string]any) document.Result {
		cancel() // peer disappears while step 1 runs
		return document.Ok("done")
	}})
	sink := &captureSink{}
	plan := Plan{
		{Tool: "canceller", Label: "one"},
		{Tool: "canceller", Label: "two"},
	}

	NewRunner(reg, nil, nil).Run(ctx, plan, sink, "doc_1", "Doc")

	// Step 1 completes, step 2 never starts, and no abort frame is sent.
	assert.Equal(t, []string{EventProgress, EventStart, EventResult}, sink.types())
}

func TestRunnerCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &captureSink{}

	NewRunner(okRegistry("op"), nil, nil).Run(ctx, Plan{{Tool: "op", Label: "x"}}, sink, "doc_1", "Doc")

	assert.Empty(t, sink.events)
}

func TestRunnerStopsWhenSinkFails(t *testing.T) {
	sink := &captureSink{failAt: 4} // fails on step 2's progress frame
	plan := Plan{
		{Tool: "op", Label: "one"},
		{Tool: "op", Label: "two"},
	}

	NewRunner(okRegistry("op"), nil, nil).Run(context.Background(), plan, sink, "doc_1", "Doc")

	assert.Equal(t, []string{EventProgress, EventStart, EventResult}, sink.types())
}

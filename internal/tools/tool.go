package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rahul/quill/internal/document"
)

// Operation defines the interface for all document operations.
type Operation interface {
	Name() string
	Description() string
	Parameters() map[string]any // JSON Schema for the operation's inputs
	Execute(ctx context.Context, params map[string]any) document.Result
}

// Registry manages the set of available operations.
type Registry struct {
	ops map[string]Operation
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

func (r *Registry) Register(op Operation) {
	r.ops[op.Name()] = op
}

func (r *Registry) Get(name string) Operation {
	return r.ops[name]
}

// Names returns every registered operation name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the static description and parameter schema of
// every registered operation, keyed by name.
func (r *Registry) Describe() map[string]any {
	out := make(map[string]any, len(r.ops))
	for name, op := range r.ops {
		out[name] = map[string]any{
			"description": op.Description(),
			"parameters":  op.Parameters(),
		}
	}
	return out
}

// Dispatch invokes a registered operation by name. The call is total:
// an unknown name or a panicking handler comes back as a failure
// Result, never as a raised error.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) (result document.Result) {
	op := r.Get(name)
	if op == nil {
		return document.Fail("unknown operation: %s", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = document.Fail("operation %s panicked: %v", name, rec)
		}
	}()

	return op.Execute(ctx, params)
}

// decodeParams maps loosely typed JSON parameters onto an operation's
// argument struct.
func decodeParams(params map[string]any, v any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("invalid parameters: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid parameters: %v", err)
	}
	return nil
}

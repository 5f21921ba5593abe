package tools

import (
	"context"

	"github.com/rahul/quill/internal/document"
)

type ListTool struct {
	Store *document.Store
}

func NewListTool(store *document.Store) *ListTool {
	return &ListTool{Store: store}
}

func (t *ListTool) Name() string {
	return "list_documents"
}

func (t *ListTool) Description() string {
	return "List all documents in the store with size and modification time."
}

func (t *ListTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *ListTool) Execute(ctx context.Context, params map[string]any) document.Result {
	docs, err := t.Store.List()
	if err != nil {
		return document.Fail("failed to list documents: %v", err)
	}
	return document.Ok("documents listed successfully").
		With("documents", docs).
		With("count", len(docs))
}

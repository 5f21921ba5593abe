package tools

import (
	"context"

	"github.com/rahul/quill/internal/document"
)

type DeleteTool struct {
	Store *document.Store
}

func NewDeleteTool(store *document.Store) *DeleteTool {
	return &DeleteTool{Store: store}
}

func (t *DeleteTool) Name() string {
	return "delete_document"
}

func (t *DeleteTool) Description() string {
	return "Delete a document from the store."
}

func (t *DeleteTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "File name to delete",
			},
		},
		"required": []string{"filename"},
	}
}

func (t *DeleteTool) Execute(ctx context.Context, params map[string]any) document.Result {
	var args struct {
		Filename string `json:"filename"`
	}
	if err := decodeParams(params, &args); err != nil {
		return document.Fail("%v", err)
	}
	if args.Filename == "" {
		return document.Fail("filename is required")
	}
	if !t.Store.Exists(args.Filename) {
		return document.Fail("file not found: %s", args.Filename)
	}

	if err := t.Store.Delete(args.Filename); err != nil {
		return document.Fail("failed to delete document: %v", err)
	}
	return document.Ok("document deleted successfully")
}

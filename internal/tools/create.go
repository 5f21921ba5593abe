package tools

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rahul/quill/internal/document"
)

type CreateTool struct {
	Store *document.Store
}

func NewCreateTool(store *document.Store) *CreateTool {
	return &CreateTool{Store: store}
}

func (t *CreateTool) Name() string {
	return "create_document"
}

func (t *CreateTool) Description() string {
	return "Create a new document with an optional title and initial content."
}

func (t *CreateTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "File name (auto-generated if not provided)",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Document title",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Initial content, one paragraph per line",
			},
		},
	}
}

func (t *CreateTool) Execute(ctx context.Context, params map[string]any) document.Result {
	var args struct {
		Filename string `json:"filename"`
		Title    string `json:"title"`
		Content  string `json:"content"`
	}
	if err := decodeParams(params, &args); err != nil {
		return document.Fail("%v", err)
	}

	if args.Filename == "" {
		args.Filename = fmt.Sprintf("document_%s", time.Now().Format("20060102_150405"))
	}

	path, err := t.Store.Path(args.Filename)
	if err != nil {
		return document.Fail("%v", err)
	}

	doc := document.New(t.Store.Clean(args.Title))
	if args.Content != "" {
		doc.AppendParagraphs(t.Store.Clean(args.Content))
	}

	if err := t.Store.Save(args.Filename, doc); err != nil {
		return document.Fail("failed to save document: %v", err)
	}

	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}

	return document.Ok("document created successfully").
		With("file_path", path).
		With("file_size", size)
}

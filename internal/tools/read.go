package tools

import (
	"context"

	"github.com/rahul/quill/internal/document"
)

type ReadTool struct {
	Store *document.Store
}

func NewReadTool(store *document.Store) *ReadTool {
	return &ReadTool{Store: store}
}

func (t *ReadTool) Name() string {
	return "read_document"
}

func (t *ReadTool) Description() string {
	return "Read the paragraphs and tables of a document."
}

func (t *ReadTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "File name to read",
			},
		},
		"required": []string{"filename"},
	}
}

func (t *ReadTool) Execute(ctx context.Context, params map[string]any) document.Result {
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

	doc, err := t.Store.Load(args.Filename)
	if err != nil {
		return document.Fail("failed to read document: %v", err)
	}

	path, _ := t.Store.Path(args.Filename)
	tables := make([][][]string, 0, len(doc.Tables))
	for _, tbl := range doc.Tables {
		tables = append(tables, tbl.Rows)
	}

	return document.Ok("document read successfully").
		With("file_path", path).
		With("paragraphs", doc.Paragraphs()).
		With("paragraph_count", len(doc.Blocks)).
		With("tables", tables).
		With("table_count", len(tables)).
		With("full_text", doc.FullText())
}

package tools

import (
	"context"
	"fmt"

	"github.com/rahul/quill/internal/document"
)

type TableTool struct {
	Store *document.Store
}

func NewTableTool(store *document.Store) *TableTool {
	return &TableTool{Store: store}
}

func (t *TableTool) Name() string {
	return "add_table"
}

func (t *TableTool) Description() string {
	return "Append a table to a document, optionally preceded by a caption heading."
}

func (t *TableTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "File name",
			},
			"table_data": map[string]any{
				"type":        "array",
				"description": "Table data as a 2D array of cells",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Optional table caption",
			},
		},
		"required": []string{"filename", "table_data"},
	}
}

func (t *TableTool) Execute(ctx context.Context, params map[string]any) document.Result {
	var args struct {
		Filename  string  `json:"filename"`
		TableData [][]any `json:"table_data"`
		Title     string  `json:"title"`
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

	caption := t.Store.Clean(args.Title)
	if caption != "" {
		doc.AddHeading(caption, 2)
	}

	if len(args.TableData) > 0 {
		rows := make([][]string, 0, len(args.TableData))
		for _, row := range args.TableData {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, t.Store.Clean(fmt.Sprint(cell)))
			}
			rows = append(rows, cells)
		}
		doc.AddTable(caption, rows)
	}

	if err := t.Store.Save(args.Filename, doc); err != nil {
		return document.Fail("failed to save document: %v", err)
	}
	return document.Ok("table added successfully")
}

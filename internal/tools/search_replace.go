package tools

import (
	"context"
	"strings"

	"github.com/rahul/quill/internal/document"
)

type SearchReplaceTool struct {
	Store *document.Store
}

func NewSearchReplaceTool(store *document.Store) *SearchReplaceTool {
	return &SearchReplaceTool{Store: store}
}

func (t *SearchReplaceTool) Name() string {
	return "search_replace"
}

func (t *SearchReplaceTool) Description() string {
	return "Search and replace text across every paragraph of a document."
}

func (t *SearchReplaceTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "File name",
			},
			"search_text": map[string]any{
				"type":        "string",
				"description": "Text to search for",
			},
			"replace_text": map[string]any{
				"type":        "string",
				"description": "Text to replace with",
			},
		},
		"required": []string{"filename", "search_text", "replace_text"},
	}
}

func (t *SearchReplaceTool) Execute(ctx context.Context, params map[string]any) document.Result {
	var args struct {
		Filename    string `json:"filename"`
		SearchText  string `json:"search_text"`
		ReplaceText string `json:"replace_text"`
	}
	if err := decodeParams(params, &args); err != nil {
		return document.Fail("%v", err)
	}
	if args.Filename == "" || args.SearchText == "" {
		return document.Fail("filename and search_text are required")
	}
	if !t.Store.Exists(args.Filename) {
		return document.Fail("file not found: %s", args.Filename)
	}

	doc, err := t.Store.Load(args.Filename)
	if err != nil {
		return document.Fail("failed to read document: %v", err)
	}

	replacement := t.Store.Clean(args.ReplaceText)
	count := 0
	for i := range doc.Blocks {
		n := strings.Count(doc.Blocks[i].Text, args.SearchText)
		if n == 0 {
			continue
		}
		doc.Blocks[i].Text = strings.ReplaceAll(doc.Blocks[i].Text, args.SearchText, replacement)
		count += n
	}

	if err := t.Store.Save(args.Filename, doc); err != nil {
		return document.Fail("failed to save document: %v", err)
	}

	return document.Okf("replaced %d occurrences", count).
		With("replacement_count", count)
}

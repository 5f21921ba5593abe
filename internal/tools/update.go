package tools

import (
	"context"

	"github.com/rahul/quill/internal/document"
)

// Update actions.
const (
	ActionAppend     = "append"
	ActionInsert     = "insert"
	ActionReplace    = "replace"
	ActionAddHeading = "add_heading"
)

type UpdateTool struct {
	Store *document.Store
}

func NewUpdateTool(store *document.Store) *UpdateTool {
	return &UpdateTool{Store: store}
}

func (t *UpdateTool) Name() string {
	return "update_document"
}

func (t *UpdateTool) Description() string {
	return "Update a document: append paragraphs, add a heading, or insert/replace a paragraph by index."
}

func (t *UpdateTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filename": map[string]any{
				"type":        "string",
				"description": "File name to update",
			},
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{ActionAppend, ActionInsert, ActionReplace, ActionAddHeading},
				"description": "The update to perform",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to add, insert, or replace",
			},
			"paragraph_index": map[string]any{
				"type":        "integer",
				"description": "Paragraph index for insert/replace (0-based)",
			},
		},
		"required": []string{"filename", "action"},
	}
}

func (t *UpdateTool) Execute(ctx context.Context, params map[string]any) document.Result {
	var args struct {
		Filename       string `json:"filename"`
		Action         string `json:"action"`
		Content        string `json:"content"`
		ParagraphIndex *int   `json:"paragraph_index"`
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

	content := t.Store.Clean(args.Content)

	switch {
	case args.Action == ActionAppend && content != "":
		doc.AppendParagraphs(content)

	case args.Action == ActionAddHeading && content != "":
		doc.AddHeading(content, 2)

	case args.Action == ActionInsert && content != "" && args.ParagraphIndex != nil:
		i := *args.ParagraphIndex
		if i < 0 || i >= len(doc.Blocks) {
			return document.Fail("paragraph index out of range: %d", i)
		}
		block := document.Block{Kind: document.KindParagraph, Text: content}
		doc.Blocks = append(doc.Blocks[:i], append([]document.Block{block}, doc.Blocks[i:]...)...)

	case args.Action == ActionReplace && args.ParagraphIndex != nil:
		i := *args.ParagraphIndex
		if i < 0 || i >= len(doc.Blocks) {
			return document.Fail("paragraph index out of range: %d", i)
		}
		doc.Blocks[i].Text = content

	default:
		return document.Fail("invalid action or missing parameters")
	}

	if err := t.Store.Save(args.Filename, doc); err != nil {
		return document.Fail("failed to save document: %v", err)
	}

	return document.Ok("document updated successfully").With("action", args.Action)
}

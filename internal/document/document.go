package document

import (
	"strings"
	"time"
)

// Block kinds.
const (
	KindParagraph = "paragraph"
	KindHeading   = "heading"
)

// Block is one unit of document flow: a paragraph or a heading.
type Block struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

// Table is a simple grid of cells with an optional caption.
type Table struct {
	Caption string     `json:"caption,omitempty"`
	Rows    [][]string `json:"rows"`
}

// Document is the on-disk representation of a document: an ordered
// list of blocks plus any tables that were appended to it.
type Document struct {
	Title   string    `json:"title"`
	Blocks  []Block   `json:"blocks"`
	Tables  []Table   `json:"tables,omitempty"`
	Created time.Time `json:"created_at"`
	Updated time.Time `json:"updated_at"`
}

func New(title string) *Document {
	now := time.Now()
	d := &Document{Title: title, Created: now, Updated: now}
	if title != "" {
		d.Blocks = append(d.Blocks, Block{Kind: KindHeading, Text: title, Level: 1})
	}
	return d
}

// AppendParagraphs splits content on newlines and appends one
// paragraph block per non-empty line.
func (d *Document) AppendParagraphs(content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			d.Blocks = append(d.Blocks, Block{Kind: KindParagraph, Text: line})
		}
	}
}

func (d *Document) AddHeading(text string, level int) {
	d.Blocks = append(d.Blocks, Block{Kind: KindHeading, Text: text, Level: level})
}

func (d *Document) AddTable(caption string, rows [][]string) {
	d.Tables = append(d.Tables, Table{Caption: caption, Rows: rows})
}

// Paragraphs returns the text of every block in flow order.
func (d *Document) Paragraphs() []string {
	out := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		out = append(out, b.Text)
	}
	return out
}

func (d *Document) FullText() string {
	return strings.Join(d.Paragraphs(), "\n")
}

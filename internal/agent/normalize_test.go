package agent

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitlePrecedence(t *testing.T) {
	title, _ := Normalize(Request{Title: "  Release Notes  ", Query: "something else"})
	assert.Equal(t, "Release Notes", title)

	title, _ = Normalize(Request{Query: "  go concurrency guide  "})
	assert.Equal(t, "go concurrency guide", title)

	title, _ = Normalize(Request{})
	assert.Equal(t, "Untitled", title)
}

func TestNormalizeDocumentID(t *testing.T) {
	_, id := Normalize(Request{Title: "Go Concurrency: A Guide!"})
	assert.Regexp(t, regexp.MustCompile(`^Go_Concurrency_A_Guide_\d+$`), id)
}

func TestNormalizeFilenameWinsOverTitle(t *testing.T) {
	_, id := Normalize(Request{Title: "Display Title", Filename: "my report"})
	assert.True(t, strings.HasPrefix(id, "my_report_"), "got %q", id)
}

func TestNormalizeKeepsCJK(t *testing.T) {
	_, id := Normalize(Request{Title: "项目计划书"})
	assert.True(t, strings.HasPrefix(id, "项目计划书_"), "got %q", id)
}

func TestNormalizeTruncatesLongBase(t *testing.T) {
	_, id := Normalize(Request{Title: strings.Repeat("x", 100)})
	parts := strings.Split(id, "_")
	require.Len(t, parts, 2)
	assert.Len(t, []rune(parts[0]), 40)
}

func TestNormalizeFallsBackOnShortBase(t *testing.T) {
	// Punctuation-only input sanitizes to nothing usable.
	_, id := Normalize(Request{Title: "!!!"})
	assert.Regexp(t, regexp.MustCompile(`^doc_\d+_\d+$`), id)
}

func TestNormalizeDistinctIDs(t *testing.T) {
	_, a := Normalize(Request{Title: "Same Title"})
	time.Sleep(2 * time.Millisecond)
	_, b := Normalize(Request{Title: "Same Title"})
	assert.NotEqual(t, a, b)
}

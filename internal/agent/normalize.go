package agent

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Request is the input that triggers an orchestrated document build.
type Request struct {
	Query    string `json:"query"`
	Title    string `json:"title,omitempty"`
	Filename string `json:"filename,omitempty"`
}

const fallbackTitle = "Untitled"

// maxBaseLen caps the sanitized identifier base before the timestamp
// suffix is appended.
const maxBaseLen = 40

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// Word characters, underscore, hyphen, and CJK ideographs survive;
	// everything else is stripped.
	invalidChars = regexp.MustCompile(`[^\w\x{4e00}-\x{9fa5}_-]+`)
)

// Normalize derives the display title and the filesystem-safe document
// identifier for a request. The millisecond suffix keeps identifiers
// distinct even when titles collide across rapid successive requests.
func Normalize(req Request) (title, documentID string) {
	title = strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(req.Query)
	}
	if title == "" {
		title = fallbackTitle
	}

	src := strings.TrimSpace(req.Filename)
	if src == "" {
		src = title
	}
	base := sanitize(src)
	if len([]rune(base)) < 3 {
		base = fmt.Sprintf("doc_%d", time.Now().Unix())
	}

	documentID = fmt.Sprintf("%s_%d", base, time.Now().UnixMilli())
	return title, documentID
}

func sanitize(name string) string {
	s := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_")
	s = invalidChars.ReplaceAllString(s, "")
	if runes := []rune(s); len(runes) > maxBaseLen {
		s = string(runes[:maxBaseLen])
	}
	return s
}

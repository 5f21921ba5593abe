package agent

import (
	"fmt"
	"strings"
)

// Step is one operation invocation within a plan: the operation name,
// its parameters, and a display label. Steps are immutable once built
// and reported by their 1-based position.
type Step struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
	Label  string         `json:"label"`
}

// Plan is the ordered sequence of steps built once per request, fully
// materialized before execution begins.
type Plan []Step

// section is one heading/body pair of the generated document. Content
// lives in this table so BuildPlan stays a pure function over it.
type section struct {
	heading string
	body    []string
}

var sections = []section{
	{"1. Overview", []string{
		"This section states what the document covers and who it is for.",
		"It sets the scope early so readers can decide whether the rest is relevant to them.",
		"Each later section builds on the terms introduced here.",
	}},
	{"2. Background", []string{
		"Context the reader needs before the main material: where the topic came from and why it matters now.",
		"Prior approaches are summarized briefly, with their main shortcomings.",
	}},
	{"3. Key Concepts", []string{
		"1) Terminology: the handful of terms used throughout the document.",
		"2) Structure: how the pieces of the topic relate to one another.",
		"3) Workflow: the order in which the pieces are normally applied.",
		"4) Constraints: the limits that shape every practical decision.",
	}},
	{"4. Practical Guidance", []string{
		"Start small: apply the core workflow to a narrow case before generalizing.",
		"Prefer explicit configuration over implicit defaults when the two disagree.",
		"Record decisions as they are made; revisiting them later without notes is expensive.",
	}},
	{"5. A Minimal Example", []string{
		"A short worked example that exercises the workflow end to end.",
		"Step one prepares the inputs, step two applies the core transformation, step three verifies the output.",
		"The example is deliberately small; real cases add volume, not new mechanics.",
	}},
	{"6. Best Practices", []string{
		"Keep each unit of work single-purpose and reviewable.",
		"Automate the checks you rely on; manual verification erodes over time.",
		"Measure before optimizing, and optimize only what the measurements implicate.",
	}},
	{"7. Summary", []string{
		"The topic rewards an incremental approach: understand the concepts, run the minimal example, then scale up.",
		"Revisit the best-practice checklist whenever the scope of use grows.",
	}},
}

var comparisonTable = [][]string{
	{"Stage", "Audience", "Purpose", "Typical length"},
	{"Outline", "Author", "Fix the structure before writing", "1 page"},
	{"Draft", "Reviewers", "Get the substance down for feedback", "Full length"},
	{"Final", "Readers", "Publish the agreed content", "Full length"},
}

const comparisonCaption = "Document stages at a glance"

// SectionCount is the number of heading/body pairs in a built plan.
var SectionCount = len(sections)

// BuildPlan produces the fixed three-phase plan for a document:
// create, then a heading/body pair per section, then the trailing
// comparison table. Step count is always 2*SectionCount + 2.
// Deterministic given its inputs; no I/O.
func BuildPlan(title, documentID string) Plan {
	intro := fmt.Sprintf(
		"This document gives a quick orientation on %s: its positioning, core concepts, and practical advice, closing with a minimal worked example.",
		title,
	)

	plan := Plan{
		{
			Tool:  "create_document",
			Label: "create document",
			Params: map[string]any{
				"filename": documentID,
				"title":    title,
				"content":  intro,
			},
		},
	}

	for _, sec := range sections {
		plan = append(plan, Step{
			Tool:  "update_document",
			Label: fmt.Sprintf("add section: %s", sec.heading),
			Params: map[string]any{
				"filename": documentID,
				"action":   "add_heading",
				"content":  sec.heading,
			},
		})
		plan = append(plan, Step{
			Tool:  "update_document",
			Label: fmt.Sprintf("write content: %s", sec.heading),
			Params: map[string]any{
				"filename": documentID,
				"action":   "append",
				"content":  strings.Join(sec.body, "\n"),
			},
		})
	}

	rows := make([]any, 0, len(comparisonTable))
	for _, row := range comparisonTable {
		cells := make([]any, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		rows = append(rows, cells)
	}

	plan = append(plan, Step{
		Tool:  "add_table",
		Label: "insert comparison table",
		Params: map[string]any{
			"filename":   documentID,
			"title":      comparisonCaption,
			"table_data": rows,
		},
	})

	return plan
}

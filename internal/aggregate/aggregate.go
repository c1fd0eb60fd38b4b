// Package aggregate implements the findings-merge step (C6): combine
// several independently produced findings documents — each covering the
// same query from a different angle — into one document via a single LLM
// call. Grounded on the teacher's internal/llm gateway-call pattern; the
// merge semantics themselves are new, since the teacher's own
// internal/aggregate package performs URL deduplication rather than content
// merging (that URL-normalization logic is kept, repurposed, in
// internal/artifact).
package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// LLMError wraps a failure from the aggregate-findings gateway call.
type LLMError struct{ Err error }

func (e *LLMError) Error() string { return fmt.Sprintf("aggregate findings: %v", e.Err) }
func (e *LLMError) Unwrap() error { return e.Err }

// Aggregator merges findings documents produced by independent branches of a
// traversal (ParallelTree levels, or parallel strategy branches) into one.
type Aggregator struct {
	Gateway *llm.Gateway
	Prompts prompts.Registry
}

func (a *Aggregator) registry() prompts.Registry {
	if a.Prompts != nil {
		return a.Prompts
	}
	return prompts.DefaultRegistry{}
}

// Merge combines docs into a single AnalysisDocument. Visited/unvisited
// result lists are concatenated across all inputs; Content is produced by a
// single LLM call over all input contents. A single input is returned
// unchanged without calling the model.
func (a *Aggregator) Merge(ctx context.Context, query string, docs []research.AnalysisDocument) (research.AnalysisDocument, error) {
	if len(docs) == 0 {
		return research.AnalysisDocument{}, nil
	}
	if len(docs) == 1 {
		return docs[0], nil
	}

	instruction := a.registry().Render(prompts.AggregateFindings, map[string]string{"query": query})
	userContext := buildMergeContext(docs)

	out, err := a.Gateway.Complete(ctx, instruction, userContext)
	if err != nil {
		return research.AnalysisDocument{}, &LLMError{Err: err}
	}

	merged := research.AnalysisDocument{Content: strings.TrimSpace(out)}
	for _, d := range docs {
		merged.VisitedResults = append(merged.VisitedResults, d.VisitedResults...)
		merged.UnvisitedResults = append(merged.UnvisitedResults, d.UnvisitedResults...)
	}
	return merged, nil
}

// buildMergeContext renders each doc as "## {title} ({url})\n\n{content}",
// joined by blank lines, per the aggregate-findings contract. A doc carrying
// more than one (or zero) VisitedResults — the ParallelTree baseline merged
// from a prior level — falls back to a numbered heading.
func buildMergeContext(docs []research.AnalysisDocument) string {
	var b strings.Builder
	for i, d := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		content := d.Content
		if content == "" {
			content = "(empty)"
		}
		if len(d.VisitedResults) == 1 {
			r := d.VisitedResults[0]
			fmt.Fprintf(&b, "## %s (%s)\n\n%s", r.Title, r.URL, content)
		} else {
			fmt.Fprintf(&b, "## Findings %d\n\n%s", i+1, content)
		}
	}
	return strings.TrimSpace(b.String())
}

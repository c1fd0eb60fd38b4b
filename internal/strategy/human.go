package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-labs/searchagent/internal/mdjson"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// HumanStrategyAppendsToUnvisited records a deliberate, kept-as-specified
// design choice: after Human visits a result, it appends that result back
// onto AnalysisDocument.UnvisitedResults rather than moving it to
// VisitedResults. This mirrors a traversal-bookkeeping quirk named an open
// question and kept rather than "fixed" — VisitedResults is populated
// separately by the loop, once per distinct URL, so downstream formatting
// still sees an accurate visited count even though every visited result also
// stays in the document's UnvisitedResults field.
const HumanStrategyAppendsToUnvisited = true

// Human lets the model choose, one result at a time, which unvisited result
// to read next, stopping once it judges the running document sufficient.
type Human struct {
	Deps
}

type selectNextResponse struct {
	Reasoning string `json:"reasoning"`
	Index     int    `json:"index"`
}

// maxRounds bounds the loop: HumanStrategyAppendsToUnvisited means a
// selected result is not removed from the candidate pool, so without a cap a
// pathological model response could select the same result forever.
func maxRounds(n int) int {
	if n <= 0 {
		return 1
	}
	return n * 2
}

func (h *Human) Run(ctx context.Context, query string, results []research.SearchResult) (research.AnalysisDocument, error) {
	doc := research.AnalysisDocument{UnvisitedResults: append([]research.SearchResult(nil), results...)}
	visitedCount := make(map[string]bool, len(results))

	for round := 0; round < maxRounds(len(results)) && len(doc.UnvisitedResults) > 0; round++ {
		idx, err := h.selectNext(ctx, query, doc.UnvisitedResults)
		if err != nil {
			return research.AnalysisDocument{}, err
		}
		chosen := doc.UnvisitedResults[idx]
		doc.UnvisitedResults = removeAt(doc.UnvisitedResults, idx)

		updated, err := h.Extract.Visit(ctx, query, chosen, doc)
		if err != nil {
			return research.AnalysisDocument{}, err
		}
		doc = updated
		doc.UnvisitedResults = append(doc.UnvisitedResults, chosen)
		if !visitedCount[chosen.URL] {
			visitedCount[chosen.URL] = true
			doc.VisitedResults = append(doc.VisitedResults, chosen)
		}

		sufficient, err := h.Sufficiency.Sufficient(ctx, query, doc)
		if err != nil {
			return research.AnalysisDocument{}, err
		}
		if sufficient {
			break
		}
	}
	return doc, nil
}

func (h *Human) selectNext(ctx context.Context, query string, unvisited []research.SearchResult) (int, error) {
	instruction := h.registry().Render(prompts.SelectNextResult, map[string]string{"query": query})
	userContext := renderUnvisitedList(unvisited)

	out, err := h.Gateway.Complete(ctx, instruction, userContext)
	if err != nil {
		return 0, &LLMError{Err: err}
	}
	var resp selectNextResponse
	if err := mdjson.Parse(out, &resp); err != nil {
		return 0, &ParseError{Err: err}
	}
	if resp.Index < 0 || resp.Index >= len(unvisited) {
		return 0, &ParseError{Err: fmt.Errorf("selected index %d out of range [0,%d)", resp.Index, len(unvisited))}
	}
	return resp.Index, nil
}

// removeAt returns results with the element at idx removed, preserving the
// order of the rest.
func removeAt(results []research.SearchResult, idx int) []research.SearchResult {
	out := make([]research.SearchResult, 0, len(results)-1)
	out = append(out, results[:idx]...)
	out = append(out, results[idx+1:]...)
	return out
}

func renderUnvisitedList(results []research.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n\n", i, r.Title, r.URL, r.Content)
	}
	return strings.TrimSpace(b.String())
}

// LLMError wraps a failure from a strategy's own gateway call (selection or
// dependency-tree construction, as opposed to the per-visit calls made by
// internal/extract).
type LLMError struct{ Err error }

func (e *LLMError) Error() string { return fmt.Sprintf("strategy: llm call failed: %v", e.Err) }
func (e *LLMError) Unwrap() error { return e.Err }

// ParseError wraps a failure decoding a strategy's own JSON response.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return fmt.Sprintf("strategy: parse response failed: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

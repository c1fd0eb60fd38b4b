// Package sufficiency implements the sufficient-information check (C7): ask
// the model whether a running findings document already answers the
// original query, failing fast on any malformed response rather than
// falling back to a deterministic heuristic. Grounded on the teacher's
// internal/verify.Verifier request/parse structure, with its fallback
// branch intentionally dropped — this component's contract requires a
// parse failure to propagate, not be papered over.
package sufficiency

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/mdjson"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// LLMError wraps a failure from the sufficient-information gateway call.
type LLMError struct{ Err error }

func (e *LLMError) Error() string { return fmt.Sprintf("sufficient information check: %v", e.Err) }
func (e *LLMError) Unwrap() error { return e.Err }

// ParseError wraps a failure decoding the model's JSON verdict.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return fmt.Sprintf("parse sufficiency verdict: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

type verdict struct {
	Sufficient bool `json:"sufficient"`
}

// Checker decides whether a findings document is sufficient to answer a query.
type Checker struct {
	Gateway *llm.Gateway
	Prompts prompts.Registry
}

func (c *Checker) registry() prompts.Registry {
	if c.Prompts != nil {
		return c.Prompts
	}
	return prompts.DefaultRegistry{}
}

// Sufficient asks the model whether doc already contains enough information
// to answer query. Any parse failure is returned as a *ParseError; the
// model's verdict is never defaulted to true or false on failure.
func (c *Checker) Sufficient(ctx context.Context, query string, doc research.AnalysisDocument) (bool, error) {
	instruction := c.registry().Render(prompts.SufficientInformation, map[string]string{"query": query})
	out, err := c.Gateway.Complete(ctx, instruction, buildContext(query, doc))
	if err != nil {
		return false, &LLMError{Err: err}
	}

	var v verdict
	if err := mdjson.Parse(out, &v); err != nil {
		return false, &ParseError{Err: err}
	}
	return v.Sufficient, nil
}

func buildContext(query string, doc research.AnalysisDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Query\n%s\n\n# Current findings document\n", query)
	if doc.Content == "" {
		b.WriteString("(empty)")
	} else {
		b.WriteString(doc.Content)
	}
	fmt.Fprintf(&b, "\n\n# Visited results\n%s\n\n# Unvisited results\n%s",
		listResults(doc.VisitedResults), listResults(doc.UnvisitedResults))
	return b.String()
}

func listResults(results []research.SearchResult) string {
	if len(results) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s)", r.Title, r.URL)
	}
	return b.String()
}

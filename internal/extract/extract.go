// Package extract implements the single-result visit-and-analyze step (C5):
// fetch a search result's page, clean it, and ask the LLM whether it
// changes the running findings document. Grounded on the teacher's
// internal/fetch+internal/llm wiring pattern (a single gateway call per
// document update) and on the original webpage-analysis sentinel contract
// confirmed in the Rust source's agent_search module.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-labs/searchagent/internal/fetch"
	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// UnchangedSentinel is the exact text the model returns when a visited
// webpage adds nothing to the existing findings document.
const UnchangedSentinel = "USE_SAME_WEB_SEARCH_FINDINGS_DOCUMENT"

// WebpageParseError wraps a failure fetching or cleaning the target page.
type WebpageParseError struct {
	URL string
	Err error
}

func (e *WebpageParseError) Error() string {
	return fmt.Sprintf("visit and parse webpage %s: %v", e.URL, e.Err)
}
func (e *WebpageParseError) Unwrap() error { return e.Err }

// LLMError wraps a failure from the analyze-result gateway call.
type LLMError struct{ Err error }

func (e *LLMError) Error() string { return fmt.Sprintf("analyze result: %v", e.Err) }
func (e *LLMError) Unwrap() error { return e.Err }

// Extractor fetches a search result's webpage and folds it into a running
// findings document.
type Extractor struct {
	Fetch   *fetch.Client
	Gateway *llm.Gateway
	Prompts prompts.Registry
}

func (e *Extractor) registry() prompts.Registry {
	if e.Prompts != nil {
		return e.Prompts
	}
	return prompts.DefaultRegistry{}
}

// Visit fetches result.URL, cleans the page, and asks the model whether the
// content changes doc. It returns doc unchanged (by value) when the model
// returns the sentinel, or a copy of doc with Content replaced otherwise.
func (e *Extractor) Visit(ctx context.Context, query string, result research.SearchResult, doc research.AnalysisDocument) (research.AnalysisDocument, error) {
	resp, err := e.Fetch.Get(ctx, result.URL)
	if err != nil {
		return doc, &WebpageParseError{URL: result.URL, Err: err}
	}
	page, err := fetch.Clean(resp.Body)
	if err != nil {
		return doc, &WebpageParseError{URL: result.URL, Err: err}
	}

	instruction := e.registry().Render(prompts.AnalyzeResult, map[string]string{"query": query})
	userContext := buildAnalyzeContext(doc, result, page)

	out, err := e.Gateway.Complete(ctx, instruction, userContext)
	if err != nil {
		return doc, &LLMError{Err: err}
	}

	trimmed := strings.TrimSpace(out)
	if strings.Contains(trimmed, UnchangedSentinel) {
		return doc, nil
	}

	updated := doc
	updated.Content = trimmed
	return updated, nil
}

func buildAnalyzeContext(doc research.AnalysisDocument, result research.SearchResult, page research.ParsedWebpage) string {
	var b strings.Builder
	b.WriteString("# Current findings document\n\n")
	if doc.Content == "" {
		b.WriteString("(empty)")
	} else {
		b.WriteString(doc.Content)
	}
	b.WriteString("\n\n# Newly visited page\n\n")
	fmt.Fprintf(&b, "Title: %s\nURL: %s\n\n", result.Title, result.URL)
	b.WriteString(page.Content)
	return b.String()
}

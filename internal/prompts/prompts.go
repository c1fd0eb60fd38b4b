// Package prompts holds the named instruction templates handed to the LLM
// gateway (C4) by every other component. Grounded on the teacher's
// internal/template profile registry (a switch over a fixed set of names
// returning a plain string, no templating engine), generalized from report
// profiles to the fixed prompt names this system needs.
package prompts

import "strings"

// Registry resolves a named template and substitutes vars into it. A var
// token in a template looks like {{name}}; unknown tokens are left as-is.
type Registry interface {
	Render(name string, vars map[string]string) string
}

// DefaultRegistry is the built-in template set.
type DefaultRegistry struct{}

// Names of every template DefaultRegistry knows how to render.
const (
	AnalyzeResult             = "analyze-result"
	SelectNextResult          = "select-next-result"
	SufficientInformation     = "sufficient-information"
	AggregateFindings         = "aggregate-findings"
	DependencyTree            = "dependency-tree"
	GenerateSingleQuery       = "generate-single-query"
	GenerateParallelQueries   = "generate-parallel-queries"
	GenerateSequentialQueries = "generate-sequential-queries"
	FormatAnswer              = "result-format-answer"
	FormatResearchSummary     = "result-format-research-summary"
	FormatFAQ                 = "result-format-faq"
	FormatNews                = "result-format-news"
	FormatWebpage             = "result-format-webpage"
	FormatCustom              = "result-format-custom"
)

var templates = map[string]string{
	AnalyzeResult: `You are maintaining a running findings document for a web research task.
You will be given the current findings document and the cleaned text of a
newly visited webpage. Decide whether the webpage adds anything not already
captured. If it adds nothing new, respond with exactly the single line
USE_SAME_WEB_SEARCH_FINDINGS_DOCUMENT and nothing else. Otherwise respond
with the full updated findings document, incorporating the new information
and preserving everything still relevant from before. Do not explain your
reasoning, only output the document or the sentinel line.

Original query: {{query}}`,

	SelectNextResult: `You are choosing which unvisited search result to read next while
researching a query. You will be given the running findings document and the
list of unvisited results (title, url, snippet). Respond with a fenced
` + "```json" + ` block containing {"reasoning": string, "index": number}
where index is the 0-based position of the chosen result in the unvisited
list.

Original query: {{query}}`,

	SufficientInformation: `You are judging whether a running findings document already contains enough
information to answer the original query completely and accurately. Respond
with a fenced ` + "```json" + ` block containing {"sufficient": boolean}.

Original query: {{query}}`,

	AggregateFindings: `You are merging several independent findings documents produced while
researching the same query from different angles. Combine them into one
coherent findings document, removing redundancy but keeping every distinct
fact and its supporting context. Respond with the merged document only.

Original query: {{query}}`,

	DependencyTree: `You are planning the order in which a set of search results should be read,
grouping results that can be read independently into the same level and
putting results that depend on earlier context in a later level. Respond
with a fenced ` + "```json" + ` block containing {"levels": [[index, ...], ...]}
where each inner array lists 0-based indexes into the provided result list.

Original query: {{query}}`,

	GenerateSingleQuery: `You are rewriting a user's research request into a single, effective search
engine query. Respond with a fenced ` + "```json" + ` block containing
{"reasoning": string, "query": string}.`,

	GenerateParallelQueries: `You are decomposing a user's research request into several independent
search engine queries that can be run in parallel and later combined.
Respond with a fenced ` + "```json" + ` block containing
{"reasoning": string, "queries": [string, ...]}.`,

	GenerateSequentialQueries: `You are decomposing a user's research request into an ordered sequence of
search engine queries, each building on what the previous one is expected to
find. Respond with a fenced ` + "```json" + ` block containing
{"reasoning": string, "queries": [string, ...]}.`,

	FormatAnswer: `Using only the findings document below, write a direct, well-supported
answer to the original query. Respond with the answer text only.

Original query: {{query}}`,

	FormatResearchSummary: `Using only the findings document below, write a structured research summary
of the original query, covering what was found, key evidence, and any open
questions. Respond with the summary text only.

Original query: {{query}}`,

	FormatFAQ: `Using only the findings document below, write a set of frequently asked
questions and answers that together cover the original query. Respond with
the FAQ content only.

Original query: {{query}}`,

	FormatNews: `Using only the findings document below, write a news article about the
original query. Respond with a short headline on the first line, a blank
line, then the article body.

Original query: {{query}}`,

	FormatWebpage: `Using only the findings document below, write the body of a webpage about
the original query, suitable for publishing as-is. Respond with a short page
title on the first line, a blank line, then the page body.

Original query: {{query}}`,

	FormatCustom: `Using only the findings document below, write the final result according to
the following custom formatting instructions: {{custom_format_description}}

Original query: {{query}}`,
}

// Render substitutes {{key}} tokens in the named template with vars[key].
// An unknown template name renders to the empty string.
func (DefaultRegistry) Render(name string, vars map[string]string) string {
	tmpl, ok := templates[name]
	if !ok {
		return ""
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

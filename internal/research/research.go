// Package research holds the data model shared by every search-orchestration
// package: the raw search hit, the cleaned webpage, the running findings
// document, and the final formatted answer.
package research

// SearchResult is a single raw hit returned by the metasearch backend.
// Content is a short snippet, not the full page body.
type SearchResult struct {
	Title   string
	URL     string
	Content string
}

// ParsedWebpage is the output of the fetch-and-clean stage (C2).
type ParsedWebpage struct {
	OriginalContent string
	Content         string
}

// AnalysisDocument is the running findings document a traversal strategy
// builds up. VisitedResults and UnvisitedResults are drawn from the raw
// result list for the query this document belongs to. They are disjoint for
// every strategy except Human, which also keeps each visited result in
// UnvisitedResults (see strategy.HumanStrategyAppendsToUnvisited).
type AnalysisDocument struct {
	Content          string
	VisitedResults   []SearchResult
	UnvisitedResults []SearchResult
}

// Clone returns a deep-enough copy so that concurrent extraction passes can
// be handed a snapshot without risking a data race on the orchestrator's
// slices.
func (d AnalysisDocument) Clone() AnalysisDocument {
	out := AnalysisDocument{Content: d.Content}
	if d.VisitedResults != nil {
		out.VisitedResults = append([]SearchResult(nil), d.VisitedResults...)
	}
	if d.UnvisitedResults != nil {
		out.UnvisitedResults = append([]SearchResult(nil), d.UnvisitedResults...)
	}
	return out
}

// PreFormattedResult is what the multi-query composer (C10) returns before
// the final formatting pass, wrapping the findings document the traversal
// strategies (C8) produced.
// QueriesExecuted records, in traversal order, every query actually sent to
// the metasearch backend — provenance for multi-query synthesis.
type PreFormattedResult struct {
	RawAnalysis     AnalysisDocument
	QueriesExecuted []string
}

// FormatKind enumerates the result-formatter output shapes (C11).
type FormatKind string

const (
	FormatAnswer          FormatKind = "answer"
	FormatResearchSummary FormatKind = "research_summary"
	FormatFAQ             FormatKind = "faq"
	FormatNews            FormatKind = "news"
	FormatWebpage         FormatKind = "webpage"
	FormatCustom          FormatKind = "custom"
)

// FormatResponse is the tagged-variant final answer. Title is populated for
// FAQ, News, and Webpage; it is empty for Answer, ResearchSummary, and Custom.
type FormatResponse struct {
	Kind    FormatKind
	Title   string
	Content string
}

// FinalResult is the top-level response of a complete request.
type FinalResult struct {
	RawAnalysis     AnalysisDocument
	QueriesExecuted []string
	Response        FormatResponse
}

// SearchStrategy selects one of the four traversal strategies (C8).
type SearchStrategy string

const (
	StrategyHuman        SearchStrategy = "human"
	StrategySequential   SearchStrategy = "sequential"
	StrategyParallel     SearchStrategy = "parallel"
	StrategyParallelTree SearchStrategy = "parallel_tree"
)

// QueryStrategy selects the multi-query composition mode (C10).
type QueryStrategy string

const (
	QueryVerbatim   QueryStrategy = "verbatim"
	QuerySingle     QueryStrategy = "single"
	QueryParallel   QueryStrategy = "parallel"
	QuerySequential QueryStrategy = "sequential"
)

// SearchRequest is the input to a full request (§3).
type SearchRequest struct {
	Query                   string
	SearchStrategy          SearchStrategy
	QueryStrategy           QueryStrategy
	MaxResultsToVisit       int
	ResultFormat            FormatKind
	CustomFormatDescription string
	Whitelist               []string
	Blacklist               []string
}

// Normalize fills in the documented defaults for any zero-value fields.
func (r SearchRequest) Normalize() SearchRequest {
	out := r
	if out.SearchStrategy == "" {
		out.SearchStrategy = StrategyHuman
	}
	if out.QueryStrategy == "" {
		out.QueryStrategy = QueryVerbatim
	}
	if out.MaxResultsToVisit <= 0 {
		out.MaxResultsToVisit = 10
	}
	if out.ResultFormat == "" {
		out.ResultFormat = FormatAnswer
	}
	return out
}

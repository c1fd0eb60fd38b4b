// Package compose implements the multi-query composer (C10): synthesize one
// or more queries from the caller's request, run the selected traversal
// strategy (C8) once per query, and merge the per-query findings documents.
// Grounded on the original Rust multi_query_parallel_tree module's
// query-fan-out shape, adapted with two deliberately kept simplifications
// recorded as open-question decisions: Parallel and Sequential queries are
// merged by concatenation, not a further LLM aggregation pass, and each
// query's strategy run starts from an empty baseline document rather than
// threading the previous query's findings into the next.
package compose

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fenwick-labs/searchagent/internal/research"
	"github.com/fenwick-labs/searchagent/internal/search"
	"github.com/fenwick-labs/searchagent/internal/strategy"
	"github.com/fenwick-labs/searchagent/internal/synthesize"
)

// Composer wires query synthesis, metasearch, and a traversal strategy into
// the single pre-formatted result a request produces before formatting.
type Composer struct {
	Search      *search.Client
	Synthesizer *synthesize.Synthesizer
	StrategyDeps strategy.Deps
}

func (c *Composer) Run(ctx context.Context, req research.SearchRequest) (research.PreFormattedResult, error) {
	req = req.Normalize()

	queries, err := c.Synthesizer.Synthesize(ctx, req.QueryStrategy, req.Query)
	if err != nil {
		return research.PreFormattedResult{}, err
	}
	if len(queries) == 0 {
		return research.PreFormattedResult{}, fmt.Errorf("compose: query synthesis produced no queries")
	}

	strat, err := strategy.New(req.SearchStrategy, c.StrategyDeps)
	if err != nil {
		return research.PreFormattedResult{}, err
	}

	if len(queries) == 1 {
		return c.runOne(ctx, strat, queries[0], req)
	}
	if req.QueryStrategy == research.QueryParallel {
		return c.runParallel(ctx, strat, queries, req)
	}
	return c.runSequential(ctx, strat, queries, req)
}

func (c *Composer) runOne(ctx context.Context, strat strategy.Strategy, query string, req research.SearchRequest) (research.PreFormattedResult, error) {
	results, err := c.Search.Search(ctx, query, req.MaxResultsToVisit, req.Whitelist, req.Blacklist)
	if err != nil {
		return research.PreFormattedResult{}, err
	}
	doc, err := strat.Run(ctx, query, results)
	if err != nil {
		return research.PreFormattedResult{}, err
	}
	return research.PreFormattedResult{RawAnalysis: doc, QueriesExecuted: []string{query}}, nil
}

func (c *Composer) runParallel(ctx context.Context, strat strategy.Strategy, queries []string, req research.SearchRequest) (research.PreFormattedResult, error) {
	docs := make([]research.AnalysisDocument, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	wg.Add(len(queries))
	for i, q := range queries {
		go func(idx int, query string) {
			defer wg.Done()
			results, err := c.Search.Search(ctx, query, req.MaxResultsToVisit, req.Whitelist, req.Blacklist)
			if err != nil {
				errs[idx] = err
				return
			}
			doc, err := strat.Run(ctx, query, results)
			if err != nil {
				errs[idx] = err
				return
			}
			docs[idx] = doc
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return research.PreFormattedResult{}, err
		}
	}
	return research.PreFormattedResult{RawAnalysis: concatenate(docs), QueriesExecuted: queries}, nil
}

func (c *Composer) runSequential(ctx context.Context, strat strategy.Strategy, queries []string, req research.SearchRequest) (research.PreFormattedResult, error) {
	docs := make([]research.AnalysisDocument, 0, len(queries))
	executed := make([]string, 0, len(queries))
	for _, q := range queries {
		results, err := c.Search.Search(ctx, q, req.MaxResultsToVisit, req.Whitelist, req.Blacklist)
		if err != nil {
			return research.PreFormattedResult{}, err
		}
		doc, err := strat.Run(ctx, q, results)
		if err != nil {
			return research.PreFormattedResult{}, err
		}
		docs = append(docs, doc)
		executed = append(executed, q)
	}
	return research.PreFormattedResult{RawAnalysis: concatenate(docs), QueriesExecuted: executed}, nil
}

// concatenate combines each query's findings document by straightforward
// concatenation: content joined with a blank line, visited/unvisited result
// lists appended in query order. No further LLM re-summarization is performed
// (kept, per spec.md §9's open-question decision).
func concatenate(docs []research.AnalysisDocument) research.AnalysisDocument {
	var content strings.Builder
	var merged research.AnalysisDocument
	for i, d := range docs {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(d.Content)
		merged.VisitedResults = append(merged.VisitedResults, d.VisitedResults...)
		merged.UnvisitedResults = append(merged.UnvisitedResults, d.UnvisitedResults...)
	}
	merged.Content = content.String()
	return merged
}

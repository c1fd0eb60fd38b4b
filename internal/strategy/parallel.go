package strategy

import (
	"context"
	"sync"

	"github.com/fenwick-labs/searchagent/internal/research"
)

// Parallel visits every result concurrently against an empty baseline
// document, then merges the resulting per-result documents with a single
// aggregation pass. Grounded on clglavan-deep-research's parallelSearch
// (WaitGroup fan-out, index-aligned result slice, one aggregation pass after
// the barrier).
type Parallel struct {
	Deps
}

func (p *Parallel) Run(ctx context.Context, query string, results []research.SearchResult) (research.AnalysisDocument, error) {
	if len(results) == 0 {
		return research.AnalysisDocument{}, nil
	}

	docs := make([]research.AnalysisDocument, len(results))
	errs := make([]error, len(results))

	var wg sync.WaitGroup
	wg.Add(len(results))
	for i, result := range results {
		go func(idx int, r research.SearchResult) {
			defer wg.Done()
			updated, err := p.Extract.Visit(ctx, query, r, research.AnalysisDocument{})
			if err != nil {
				errs[idx] = err
				return
			}
			updated.VisitedResults = []research.SearchResult{r}
			docs[idx] = updated
		}(i, result)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return research.AnalysisDocument{}, err
		}
	}

	merged, err := p.Aggregator.Merge(ctx, query, docs)
	if err != nil {
		return research.AnalysisDocument{}, err
	}
	return merged, nil
}

package strategy

import (
	"context"

	"github.com/fenwick-labs/searchagent/internal/research"
)

// Sequential visits results in the order the metasearch backend returned
// them, with no LLM-driven selection, stopping early once the running
// document is judged sufficient.
type Sequential struct {
	Deps
}

func (s *Sequential) Run(ctx context.Context, query string, results []research.SearchResult) (research.AnalysisDocument, error) {
	doc := research.AnalysisDocument{UnvisitedResults: append([]research.SearchResult(nil), results...)}

	for len(doc.UnvisitedResults) > 0 {
		next := doc.UnvisitedResults[0]
		doc.UnvisitedResults = doc.UnvisitedResults[1:]

		updated, err := s.Extract.Visit(ctx, query, next, doc)
		if err != nil {
			return research.AnalysisDocument{}, err
		}
		doc = updated
		doc.VisitedResults = append(doc.VisitedResults, next)

		sufficient, err := s.Sufficiency.Sufficient(ctx, query, doc)
		if err != nil {
			return research.AnalysisDocument{}, err
		}
		if sufficient {
			break
		}
	}
	return doc, nil
}

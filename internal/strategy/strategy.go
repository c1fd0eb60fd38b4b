// Package strategy implements the four traversal strategies (C8): Human,
// Sequential, Parallel, and ParallelTree each decide which search results to
// visit, in what order, and how to fold each visit into a running findings
// document. Grounded on clglavan-deep-research's agent.parallelSearch for
// the goroutine+WaitGroup fan-out shape, and on the original Rust
// agent_search submodules for the exact per-strategy semantics.
package strategy

import (
	"context"
	"fmt"

	"github.com/fenwick-labs/searchagent/internal/aggregate"
	"github.com/fenwick-labs/searchagent/internal/extract"
	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
	"github.com/fenwick-labs/searchagent/internal/sufficiency"
)

// Strategy traverses a set of search results for a single query and returns
// the resulting findings document, whose VisitedResults/UnvisitedResults
// record which of those results were read.
type Strategy interface {
	Run(ctx context.Context, query string, results []research.SearchResult) (research.AnalysisDocument, error)
}

// Deps bundles the collaborators every strategy needs. Extract performs a
// single-result visit; Sufficiency decides when to stop early; Aggregator
// merges independently produced documents; Gateway and Prompts back
// strategies that make their own LLM calls (Human's selection, ParallelTree's
// dependency-tree construction).
type Deps struct {
	Extract     *extract.Extractor
	Sufficiency *sufficiency.Checker
	Aggregator  *aggregate.Aggregator
	Gateway     *llm.Gateway
	Prompts     prompts.Registry
}

func (d Deps) registry() prompts.Registry {
	if d.Prompts != nil {
		return d.Prompts
	}
	return prompts.DefaultRegistry{}
}

// New returns the Strategy implementation named by kind.
func New(kind research.SearchStrategy, deps Deps) (Strategy, error) {
	switch kind {
	case research.StrategyHuman:
		return &Human{Deps: deps}, nil
	case research.StrategySequential:
		return &Sequential{Deps: deps}, nil
	case research.StrategyParallel:
		return &Parallel{Deps: deps}, nil
	case research.StrategyParallelTree:
		return &ParallelTree{Deps: deps}, nil
	default:
		return nil, fmt.Errorf("strategy: unknown strategy %q", kind)
	}
}

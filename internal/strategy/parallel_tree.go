package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/fenwick-labs/searchagent/internal/mdjson"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// ParallelTree asks the model to group results into dependency levels, then
// processes each level as a Parallel-style fan-out-and-merge pass, feeding
// each level's merged document in as the next level's baseline. Grounded on
// the original Rust parallel_tree_agent_search: VisitedResults accumulates
// across levels and UnvisitedResults stays empty throughout, since every
// result named by the tree is considered visited once its level completes.
type ParallelTree struct {
	Deps
}

type dependencyTree struct {
	Levels [][]int `json:"levels"`
}

func (pt *ParallelTree) Run(ctx context.Context, query string, results []research.SearchResult) (research.AnalysisDocument, error) {
	tree, err := pt.constructTree(ctx, query, results)
	if err != nil {
		return research.AnalysisDocument{}, err
	}
	if err := validatePartition(tree.Levels, len(results)); err != nil {
		return research.AnalysisDocument{}, &ParseError{Err: err}
	}

	doc := research.AnalysisDocument{}
	for _, level := range tree.Levels {
		levelResults := make([]research.SearchResult, 0, len(level))
		for _, idx := range level {
			levelResults = append(levelResults, results[idx])
		}
		if len(levelResults) == 0 {
			continue
		}

		merged, err := pt.processLevel(ctx, query, levelResults, doc)
		if err != nil {
			return research.AnalysisDocument{}, err
		}
		doc.Content = merged.Content
		doc.VisitedResults = append(doc.VisitedResults, levelResults...)
	}
	doc.UnvisitedResults = nil
	return doc, nil
}

func (pt *ParallelTree) processLevel(ctx context.Context, query string, levelResults []research.SearchResult, baseline research.AnalysisDocument) (research.AnalysisDocument, error) {
	docs := make([]research.AnalysisDocument, len(levelResults))
	errs := make([]error, len(levelResults))

	var wg sync.WaitGroup
	wg.Add(len(levelResults))
	for i, result := range levelResults {
		go func(idx int, r research.SearchResult) {
			defer wg.Done()
			updated, err := pt.Extract.Visit(ctx, query, r, baseline)
			if err != nil {
				errs[idx] = err
				return
			}
			docs[idx] = updated
		}(i, result)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return research.AnalysisDocument{}, err
		}
	}
	return pt.Aggregator.Merge(ctx, query, docs)
}

// validatePartition checks that levels, taken together, name every index in
// [0,n) exactly once: no raw result is dropped from the tree, and none is
// assigned to more than one level (which would double-count it in
// VisitedResults and visit it twice).
func validatePartition(levels [][]int, n int) error {
	seen := make(map[int]bool, n)
	for _, level := range levels {
		for _, idx := range level {
			if idx < 0 || idx >= n {
				return fmt.Errorf("dependency tree index %d out of range [0,%d)", idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("dependency tree index %d appears in more than one level", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != n {
		return fmt.Errorf("dependency tree covers %d of %d results", len(seen), n)
	}
	return nil
}

func (pt *ParallelTree) constructTree(ctx context.Context, query string, results []research.SearchResult) (dependencyTree, error) {
	instruction := pt.registry().Render(prompts.DependencyTree, map[string]string{"query": query})
	userContext := renderUnvisitedList(results)

	out, err := pt.Gateway.Complete(ctx, instruction, userContext)
	if err != nil {
		return dependencyTree{}, &LLMError{Err: err}
	}
	var tree dependencyTree
	if err := mdjson.Parse(out, &tree); err != nil {
		return dependencyTree{}, &ParseError{Err: err}
	}
	return tree, nil
}

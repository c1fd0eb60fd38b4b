// Package synthesize implements query synthesis (C9): turn the caller's raw
// request into one or more metasearch queries, according to the requested
// QueryStrategy. Grounded on the teacher's internal/planner.LLMPlanner
// request/parse structure, with its fallback-planner branch intentionally
// dropped in favor of fail-fast error propagation.
package synthesize

import (
	"context"
	"fmt"

	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/mdjson"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// LLMError wraps a failure from a query-synthesis gateway call.
type LLMError struct{ Err error }

func (e *LLMError) Error() string { return fmt.Sprintf("synthesize query: %v", e.Err) }
func (e *LLMError) Unwrap() error { return e.Err }

// ParseError wraps a failure decoding the model's query-synthesis response.
type ParseError struct{ Err error }

func (e *ParseError) Error() string { return fmt.Sprintf("parse synthesized query: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Synthesizer turns a raw request into the queries to run, per strategy.
type Synthesizer struct {
	Gateway *llm.Gateway
	Prompts prompts.Registry
}

func (s *Synthesizer) registry() prompts.Registry {
	if s.Prompts != nil {
		return s.Prompts
	}
	return prompts.DefaultRegistry{}
}

type singleQueryResponse struct {
	Reasoning string `json:"reasoning"`
	Query     string `json:"query"`
}

type multiQueryResponse struct {
	Reasoning string   `json:"reasoning"`
	Queries   []string `json:"queries"`
}

// Synthesize returns the queries to run for rawQuery under strategy.
// Verbatim makes no LLM call and always returns []string{rawQuery}.
func (s *Synthesizer) Synthesize(ctx context.Context, strategy research.QueryStrategy, rawQuery string) ([]string, error) {
	switch strategy {
	case research.QueryVerbatim:
		return []string{rawQuery}, nil
	case research.QuerySingle:
		return s.single(ctx, rawQuery)
	case research.QueryParallel:
		return s.multi(ctx, prompts.GenerateParallelQueries, rawQuery)
	case research.QuerySequential:
		return s.multi(ctx, prompts.GenerateSequentialQueries, rawQuery)
	default:
		return nil, fmt.Errorf("synthesize: unknown query strategy %q", strategy)
	}
}

func (s *Synthesizer) single(ctx context.Context, rawQuery string) ([]string, error) {
	instruction := s.registry().Render(prompts.GenerateSingleQuery, nil)
	out, err := s.Gateway.Complete(ctx, instruction, rawQuery)
	if err != nil {
		return nil, &LLMError{Err: err}
	}
	var resp singleQueryResponse
	if err := mdjson.Parse(out, &resp); err != nil {
		return nil, &ParseError{Err: err}
	}
	return []string{resp.Query}, nil
}

func (s *Synthesizer) multi(ctx context.Context, templateName, rawQuery string) ([]string, error) {
	instruction := s.registry().Render(templateName, nil)
	out, err := s.Gateway.Complete(ctx, instruction, rawQuery)
	if err != nil {
		return nil, &LLMError{Err: err}
	}
	var resp multiQueryResponse
	if err := mdjson.Parse(out, &resp); err != nil {
		return nil, &ParseError{Err: err}
	}
	return resp.Queries, nil
}

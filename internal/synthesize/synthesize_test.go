package synthesize

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/research"
)

type stubClient struct{ content string }

func (s *stubClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.content}}},
	}, nil
}

func TestSynthesize_Verbatim_MakesNoLLMCall(t *testing.T) {
	s := &Synthesizer{Gateway: &llm.Gateway{Client: &stubClient{content: "should not be called"}, Model: "m"}}
	queries, err := s.Synthesize(context.Background(), research.QueryVerbatim, "raw query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 1 || queries[0] != "raw query" {
		t.Fatalf("expected verbatim passthrough, got %+v", queries)
	}
}

func TestSynthesize_Single_ParsesQuery(t *testing.T) {
	s := &Synthesizer{Gateway: &llm.Gateway{Client: &stubClient{content: "```json\n{\"reasoning\": \"r\", \"query\": \"rewritten\"}\n```"}, Model: "m"}}
	queries, err := s.Synthesize(context.Background(), research.QuerySingle, "raw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 1 || queries[0] != "rewritten" {
		t.Fatalf("unexpected queries: %+v", queries)
	}
}

func TestSynthesize_Parallel_ParsesQueries(t *testing.T) {
	s := &Synthesizer{Gateway: &llm.Gateway{Client: &stubClient{content: "```json\n{\"reasoning\": \"r\", \"queries\": [\"a\", \"b\"]}\n```"}, Model: "m"}}
	queries, err := s.Synthesize(context.Background(), research.QueryParallel, "raw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queries) != 2 || queries[0] != "a" || queries[1] != "b" {
		t.Fatalf("unexpected queries: %+v", queries)
	}
}

func TestSynthesize_MalformedResponseFailsFast(t *testing.T) {
	s := &Synthesizer{Gateway: &llm.Gateway{Client: &stubClient{content: "no json"}, Model: "m"}}
	_, err := s.Synthesize(context.Background(), research.QuerySequential, "raw")
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected ParseError, got %v (%T)", err, err)
	}
}

package compose

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fenwick-labs/searchagent/internal/extract"
	"github.com/fenwick-labs/searchagent/internal/fetch"
	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/research"
	"github.com/fenwick-labs/searchagent/internal/search"
	"github.com/fenwick-labs/searchagent/internal/strategy"
	"github.com/fenwick-labs/searchagent/internal/sufficiency"
	"github.com/fenwick-labs/searchagent/internal/synthesize"
)

type stubClient struct{ content string }

func (s *stubClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.content}}},
	}, nil
}

func newSearxServer(t *testing.T, title, url string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"title": title, "url": url, "content": "snippet"}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>content</p></body></html>"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newComposer(t *testing.T, synthContent string) (*Composer, *httptest.Server) {
	page := newPageServer(t)
	searx := newSearxServer(t, "title", page.URL)

	deps := strategy.Deps{
		Extract:     &extract.Extractor{Fetch: &fetch.Client{MaxAttempts: 1}, Gateway: &llm.Gateway{Client: &stubClient{content: "findings"}, Model: "m"}},
		Sufficiency: &sufficiency.Checker{Gateway: &llm.Gateway{Client: &stubClient{content: "```json\n{\"sufficient\": true}\n```"}, Model: "m"}},
	}
	c := &Composer{
		Search:      &search.Client{BaseURL: searx.URL, HTTPClient: searx.Client()},
		Synthesizer: &synthesize.Synthesizer{Gateway: &llm.Gateway{Client: &stubClient{content: synthContent}, Model: "m"}},
		StrategyDeps: deps,
	}
	return c, page
}

func TestComposer_Verbatim_RunsSingleQuery(t *testing.T) {
	c, _ := newComposer(t, "unused")
	req := research.SearchRequest{Query: "raw query", SearchStrategy: research.StrategySequential, QueryStrategy: research.QueryVerbatim}
	out, err := c.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.QueriesExecuted) != 1 || out.QueriesExecuted[0] != "raw query" {
		t.Fatalf("unexpected queries executed: %+v", out.QueriesExecuted)
	}
}

func TestComposer_Parallel_ConcatenatesAcrossQueries(t *testing.T) {
	c, _ := newComposer(t, "```json\n{\"reasoning\": \"r\", \"queries\": [\"q1\", \"q2\"]}\n```")
	req := research.SearchRequest{Query: "raw", SearchStrategy: research.StrategySequential, QueryStrategy: research.QueryParallel}
	out, err := c.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.QueriesExecuted) != 2 {
		t.Fatalf("expected 2 queries executed, got %d", len(out.QueriesExecuted))
	}
}

func TestComposer_Sequential_RunsEachQueryFromFreshBaseline(t *testing.T) {
	c, _ := newComposer(t, "```json\n{\"reasoning\": \"r\", \"queries\": [\"q1\", \"q2\"]}\n```")
	req := research.SearchRequest{Query: "raw", SearchStrategy: research.StrategySequential, QueryStrategy: research.QuerySequential}
	out, err := c.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.QueriesExecuted) != 2 {
		t.Fatalf("expected 2 queries executed, got %d", len(out.QueriesExecuted))
	}
	if len(out.RawAnalysis.VisitedResults) != 2 {
		t.Fatalf("expected 2 visited results concatenated across both queries, got %d", len(out.RawAnalysis.VisitedResults))
	}
}

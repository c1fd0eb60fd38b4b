package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fenwick-labs/searchagent/internal/fetch"
	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/research"
)

type stubChatClient struct {
	content string
	err     error
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.content}}},
	}, nil
}

func TestExtractor_Visit_SentinelKeepsDocumentUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>nothing new</p></body></html>"))
	}))
	defer srv.Close()

	e := &Extractor{
		Fetch:   &fetch.Client{MaxAttempts: 1},
		Gateway: &llm.Gateway{Client: &stubChatClient{content: UnchangedSentinel}, Model: "m"},
	}
	doc := research.AnalysisDocument{Content: "original findings"}
	out, err := e.Visit(context.Background(), "q", research.SearchResult{URL: srv.URL, Title: "t"}, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "original findings" {
		t.Fatalf("expected document unchanged, got %q", out.Content)
	}
}

func TestExtractor_Visit_UpdatesDocumentOnNewContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>fresh fact</p></body></html>"))
	}))
	defer srv.Close()

	e := &Extractor{
		Fetch:   &fetch.Client{MaxAttempts: 1},
		Gateway: &llm.Gateway{Client: &stubChatClient{content: "updated findings with fresh fact"}, Model: "m"},
	}
	doc := research.AnalysisDocument{Content: "original findings"}
	out, err := e.Visit(context.Background(), "q", research.SearchResult{URL: srv.URL, Title: "t"}, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "updated findings with fresh fact" {
		t.Fatalf("expected updated document, got %q", out.Content)
	}
}

func TestExtractor_Visit_FetchFailureIsWebpageParseError(t *testing.T) {
	e := &Extractor{
		Fetch:   &fetch.Client{MaxAttempts: 1, RetryDelay: 1},
		Gateway: &llm.Gateway{Client: &stubChatClient{content: "x"}, Model: "m"},
	}
	_, err := e.Visit(context.Background(), "q", research.SearchResult{URL: "http://127.0.0.1:1"}, research.AnalysisDocument{})
	if _, ok := err.(*WebpageParseError); !ok {
		t.Fatalf("expected WebpageParseError, got %v (%T)", err, err)
	}
}

func TestExtractor_Visit_LLMFailureIsLLMError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>x</p></body></html>"))
	}))
	defer srv.Close()

	e := &Extractor{
		Fetch:   &fetch.Client{MaxAttempts: 1},
		Gateway: &llm.Gateway{Client: &stubChatClient{err: http.ErrBodyNotAllowed}, Model: "m"},
	}
	_, err := e.Visit(context.Background(), "q", research.SearchResult{URL: srv.URL}, research.AnalysisDocument{})
	if _, ok := err.(*LLMError); !ok {
		t.Fatalf("expected LLMError, got %v (%T)", err, err)
	}
}

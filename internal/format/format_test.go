package format

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

func TestFormat_Answer_HasNoTitle(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "the answer"}, Model: "m"}}
	resp, err := f.Format(context.Background(), "q", research.FormatAnswer, "", research.AnalysisDocument{Content: "findings"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "" || resp.Content != "the answer" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestFormat_FAQ_HasFixedTitle(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "Q: x?\nA: y."}, Model: "m"}}
	resp, err := f.Format(context.Background(), "q", research.FormatFAQ, "", research.AnalysisDocument{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "Frequently Asked Questions" {
		t.Fatalf("expected fixed FAQ title, got %q", resp.Title)
	}
}

func TestFormat_News_SplitsTitleFromBody(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "Headline Here\n\nArticle body follows."}, Model: "m"}}
	resp, err := f.Format(context.Background(), "q", research.FormatNews, "", research.AnalysisDocument{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "Headline Here" {
		t.Fatalf("unexpected title: %q", resp.Title)
	}
	if resp.Content != "Article body follows." {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
}

func TestFormat_News_FallsBackToDefaultTitleWhenNoNewline(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "just one line"}, Model: "m"}}
	resp, err := f.Format(context.Background(), "q", research.FormatNews, "", research.AnalysisDocument{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "News Article" {
		t.Fatalf("expected fallback title, got %q", resp.Title)
	}
	if resp.Content != "just one line" {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
}

func TestFormat_Webpage_FallsBackToDefaultTitleWhenNoNewline(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "just one line"}, Model: "m"}}
	resp, err := f.Format(context.Background(), "q", research.FormatWebpage, "", research.AnalysisDocument{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "Webpage" {
		t.Fatalf("expected fallback title, got %q", resp.Title)
	}
}

func TestFormat_Custom_RequiresDescription(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "x"}, Model: "m"}}
	_, err := f.Format(context.Background(), "q", research.FormatCustom, "", research.AnalysisDocument{})
	if _, ok := err.(CustomFormatDescriptionMissingError); !ok {
		t.Fatalf("expected CustomFormatDescriptionMissingError, got %v (%T)", err, err)
	}
}

func TestFormat_Custom_UsesDescriptionWhenProvided(t *testing.T) {
	f := &Formatter{Gateway: &llm.Gateway{Client: &stubClient{content: "custom output"}, Model: "m"}}
	resp, err := f.Format(context.Background(), "q", research.FormatCustom, "bulleted list", research.AnalysisDocument{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "custom output" {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
}

// Package format implements the result formatter (C11): one LLM call per
// requested output shape, turning a findings document into the final
// answer, research summary, FAQ, news article, webpage body, or a custom
// format. Grounded on the teacher's internal/synth.Synthesizer request/parse
// structure; the per-kind title handling (FAQ's fixed title, News/Webpage's
// split-on-first-newline) follows the original Rust result_format module.
package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/prompts"
	"github.com/fenwick-labs/searchagent/internal/research"
)

// CustomFormatDescriptionMissingError is returned when FormatCustom is
// requested without a CustomFormatDescription.
type CustomFormatDescriptionMissingError struct{}

func (CustomFormatDescriptionMissingError) Error() string {
	return "format: custom format requested without a custom_format_description"
}

// LLMError wraps a failure from a result-formatting gateway call.
type LLMError struct{ Err error }

func (e *LLMError) Error() string { return fmt.Sprintf("format result: %v", e.Err) }
func (e *LLMError) Unwrap() error { return e.Err }

const (
	faqTitle          = "Frequently Asked Questions"
	newsFallbackTitle = "News Article"
	webpageFallback   = "Webpage"
)

// Formatter turns a findings document into a FormatResponse.
type Formatter struct {
	Gateway *llm.Gateway
	Prompts prompts.Registry
}

func (f *Formatter) registry() prompts.Registry {
	if f.Prompts != nil {
		return f.Prompts
	}
	return prompts.DefaultRegistry{}
}

// Format dispatches on kind. customDescription is required (non-empty) only
// when kind is research.FormatCustom.
func (f *Formatter) Format(ctx context.Context, query string, kind research.FormatKind, customDescription string, doc research.AnalysisDocument) (research.FormatResponse, error) {
	switch kind {
	case research.FormatAnswer:
		return f.untitled(ctx, prompts.FormatAnswer, query, doc, kind)
	case research.FormatResearchSummary:
		return f.untitled(ctx, prompts.FormatResearchSummary, query, doc, kind)
	case research.FormatFAQ:
		content, err := f.complete(ctx, prompts.FormatFAQ, query, "", doc)
		if err != nil {
			return research.FormatResponse{}, err
		}
		return research.FormatResponse{Kind: kind, Title: faqTitle, Content: content}, nil
	case research.FormatNews:
		return f.titledSplit(ctx, prompts.FormatNews, query, doc, kind, newsFallbackTitle)
	case research.FormatWebpage:
		return f.titledSplit(ctx, prompts.FormatWebpage, query, doc, kind, webpageFallback)
	case research.FormatCustom:
		if strings.TrimSpace(customDescription) == "" {
			return research.FormatResponse{}, CustomFormatDescriptionMissingError{}
		}
		content, err := f.complete(ctx, prompts.FormatCustom, query, customDescription, doc)
		if err != nil {
			return research.FormatResponse{}, err
		}
		return research.FormatResponse{Kind: kind, Content: content}, nil
	default:
		return research.FormatResponse{}, fmt.Errorf("format: unknown format kind %q", kind)
	}
}

func (f *Formatter) untitled(ctx context.Context, templateName, query string, doc research.AnalysisDocument, kind research.FormatKind) (research.FormatResponse, error) {
	content, err := f.complete(ctx, templateName, query, "", doc)
	if err != nil {
		return research.FormatResponse{}, err
	}
	return research.FormatResponse{Kind: kind, Content: content}, nil
}

func (f *Formatter) titledSplit(ctx context.Context, templateName, query string, doc research.AnalysisDocument, kind research.FormatKind, fallbackTitle string) (research.FormatResponse, error) {
	content, err := f.complete(ctx, templateName, query, "", doc)
	if err != nil {
		return research.FormatResponse{}, err
	}
	title, body := splitTitleAndBody(content, fallbackTitle)
	return research.FormatResponse{Kind: kind, Title: title, Content: body}, nil
}

func (f *Formatter) complete(ctx context.Context, templateName, query, customDescription string, doc research.AnalysisDocument) (string, error) {
	vars := map[string]string{"query": query}
	if customDescription != "" {
		vars["custom_format_description"] = customDescription
	}
	instruction := f.registry().Render(templateName, vars)
	out, err := f.Gateway.Complete(ctx, instruction, doc.Content)
	if err != nil {
		return "", &LLMError{Err: err}
	}
	return strings.TrimSpace(out), nil
}

// splitTitleAndBody splits completion on its first newline into a title and
// body. When no newline is present, the whole completion becomes the body
// and fallbackTitle is used.
func splitTitleAndBody(completion, fallbackTitle string) (string, string) {
	idx := strings.IndexByte(completion, '\n')
	if idx < 0 {
		return fallbackTitle, strings.TrimSpace(completion)
	}
	title := strings.TrimSpace(completion[:idx])
	body := strings.TrimSpace(completion[idx+1:])
	if title == "" {
		return fallbackTitle, body
	}
	return title, body
}

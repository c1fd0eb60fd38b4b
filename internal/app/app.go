package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/fenwick-labs/searchagent/internal/aggregate"
	"github.com/fenwick-labs/searchagent/internal/artifact"
	"github.com/fenwick-labs/searchagent/internal/compose"
	"github.com/fenwick-labs/searchagent/internal/extract"
	"github.com/fenwick-labs/searchagent/internal/fetch"
	"github.com/fenwick-labs/searchagent/internal/format"
	"github.com/fenwick-labs/searchagent/internal/llm"
	"github.com/fenwick-labs/searchagent/internal/ratelimit"
	"github.com/fenwick-labs/searchagent/internal/research"
	"github.com/fenwick-labs/searchagent/internal/search"
	"github.com/fenwick-labs/searchagent/internal/strategy"
	"github.com/fenwick-labs/searchagent/internal/sufficiency"
	"github.com/fenwick-labs/searchagent/internal/synthesize"
)

// App bundles every stage of the pipeline (C2-C11) behind a single entry
// point, Handle, so the HTTP layer only has to deal with request decoding,
// error mapping, and response encoding.
type App struct {
	cfg       Config
	composer  *compose.Composer
	formatter *format.Formatter
}

// New constructs an App from cfg and performs a best-effort connectivity
// check against the configured LLM backend, following the teacher's
// preflight idiom: a failure here is logged, not fatal, since downstream
// calls will surface the same error for the caller to act on.
func New(ctx context.Context, cfg Config) (*App, error) {
	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	transportCfg.HTTPClient = newHighThroughputHTTPClient()
	aiClient := openai.NewClientWithConfig(transportCfg)

	gateway := &llm.Gateway{Client: aiClient, Model: cfg.LLMModel}

	var limiter *ratelimit.Limiter
	if cfg.SearchRatePerSecond > 0 {
		limiter = ratelimit.New(cfg.SearchRatePerSecond, cfg.SearchRateBurst)
	}

	searchClient := &search.Client{
		BaseURL:    cfg.SearxURL,
		APIKey:     cfg.SearxKey,
		HTTPClient: newHighThroughputHTTPClient(),
		UserAgent:  cfg.UserAgent,
		Limiter:    limiter,
	}

	fetchClient := &fetch.Client{
		HTTPClient:        newHighThroughputHTTPClient(),
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: 15 * time.Second,
	}

	deps := strategy.Deps{
		Extract:     &extract.Extractor{Fetch: fetchClient, Gateway: gateway},
		Sufficiency: &sufficiency.Checker{Gateway: gateway},
		Aggregator:  &aggregate.Aggregator{Gateway: gateway},
		Gateway:     gateway,
	}

	a := &App{
		cfg: cfg,
		composer: &compose.Composer{
			Search:       searchClient,
			Synthesizer:  &synthesize.Synthesizer{Gateway: gateway},
			StrategyDeps: deps,
		},
		formatter: &format.Formatter{Gateway: gateway},
	}

	preflight, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if models, err := aiClient.ListModels(preflight); err != nil {
		log.Warn().Err(err).Msg("llm model list failed; continuing")
	} else if len(models.Models) == 0 {
		log.Warn().Msg("llm backend returned zero models")
	} else {
		log.Info().Int("count", len(models.Models)).Msg("llm models available")
	}

	return a, nil
}

// Handle runs a complete research request: multi-query composition (C9/C10)
// followed by result formatting (C11).
func (a *App) Handle(ctx context.Context, req research.SearchRequest) (research.FinalResult, error) {
	if req.MaxResultsToVisit <= 0 {
		req.MaxResultsToVisit = a.cfg.DefaultMaxResultsToVisit
	}
	req = req.Normalize()
	if req.ResultFormat == research.FormatCustom && strings.TrimSpace(req.CustomFormatDescription) == "" {
		// Usage error: fail before any metasearch or LLM call is issued.
		return research.FinalResult{}, format.CustomFormatDescriptionMissingError{}
	}

	ctx, cancel := context.WithTimeout(ctx, a.requestTimeout())
	defer cancel()

	pre, err := a.composer.Run(ctx, req)
	if err != nil {
		return research.FinalResult{}, err
	}

	resp, err := a.formatter.Format(ctx, req.Query, req.ResultFormat, req.CustomFormatDescription, pre.RawAnalysis)
	if err != nil {
		return research.FinalResult{}, err
	}

	final := research.FinalResult{
		RawAnalysis:     pre.RawAnalysis,
		QueriesExecuted: pre.QueriesExecuted,
		Response:        resp,
	}

	if a.cfg.ArtifactDir != "" {
		a.exportArtifact(final)
	}

	return final, nil
}

// exportArtifact writes a Markdown and PDF copy of result under
// cfg.ArtifactDir, named from the request's queries. Export failures are
// logged, not returned: the artifact is a convenience export of an
// already-successful result, not part of the request's success contract.
func (a *App) exportArtifact(result research.FinalResult) {
	if err := os.MkdirAll(a.cfg.ArtifactDir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", a.cfg.ArtifactDir).Msg("artifact export: create directory failed")
		return
	}
	base := artifactBaseName(result)

	mdPath := filepath.Join(a.cfg.ArtifactDir, base+".md")
	if err := os.WriteFile(mdPath, []byte(artifact.FormatMarkdown(result)), 0o644); err != nil {
		log.Warn().Err(err).Str("path", mdPath).Msg("artifact export: write markdown failed")
	}

	pdfPath := filepath.Join(a.cfg.ArtifactDir, base+".pdf")
	if err := artifact.WritePDF(result, pdfPath); err != nil {
		log.Warn().Err(err).Str("path", pdfPath).Msg("artifact export: write pdf failed")
	}
}

// artifactBaseName derives a filesystem-safe file stem from the first
// executed query, falling back to a generic name when none is recorded.
func artifactBaseName(result research.FinalResult) string {
	name := "result"
	if len(result.QueriesExecuted) > 0 {
		name = result.QueriesExecuted[0]
	}
	return fmt.Sprintf("%s-%d", slugify(name), time.Now().UnixNano())
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "result"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}

func (a *App) requestTimeout() time.Duration {
	if a.cfg.RequestTimeout > 0 {
		return a.cfg.RequestTimeout
	}
	return 120 * time.Second
}


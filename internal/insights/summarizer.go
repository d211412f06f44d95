package insights

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/shared/cache"
	"portfolio-pulse/internal/shared/metrics"
	"portfolio-pulse/internal/shared/telemetry"
	"portfolio-pulse/internal/shared/util"
	"portfolio-pulse/internal/spreadsheet"
)

// ClientProvider hands out the currently configured model client.
type ClientProvider interface {
	Client(ctx context.Context) (llm.Client, error)
}

// StaticClient always provides the same client.
type StaticClient struct{ C llm.Client }

func (s StaticClient) Client(ctx context.Context) (llm.Client, error) {
	if s.C == nil {
		return nil, llm.ErrNotConfigured
	}
	return s.C, nil
}

// Options tune a Summarizer. Zero values are usable.
type Options struct {
	// Timeout bounds each provider call, including the limiter wait. Default 30s.
	Timeout time.Duration
	// Limiter paces provider calls across goroutines.
	Limiter *rate.Limiter
	// Cache keeps successful model summaries; fallbacks are never cached.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Summarizer turns reports into summaries and cannot fail.
type Summarizer struct {
	clients ClientProvider
	opts    Options
}

// NewSummarizer creates a Summarizer over clients.
func NewSummarizer(clients ClientProvider, opts Options) *Summarizer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Summarizer{clients: clients, opts: opts}
}

// Summarize asks the model about r. Any failure along the way (no client,
// limiter, timeout, transport, unparseable reply) yields Fallback(r).
func (s *Summarizer) Summarize(ctx context.Context, r spreadsheet.Report) ProjectSummary {
	sum, err := s.ask(ctx, r)
	if err != nil {
		metrics.IncSummaryFallback()
		telemetry.Warn("insights.fallback", map[string]any{
			"project": r.ProjectName,
			"week":    r.WeekNumber,
			"reason":    err.Error(),
			"temporary": llm.Temporary(err),
		})
		return Fallback(r)
	}
	return sum
}

// SummarizeAll summarises reports with at most limit calls in flight.
// The result is index-aligned with reports.
func (s *Summarizer) SummarizeAll(ctx context.Context, reports []spreadsheet.Report, limit int) []ProjectSummary {
	if limit <= 0 {
		limit = 1
	}
	out := make([]ProjectSummary, len(reports))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, r := range reports {
		i, r := i, r
		g.Go(func() error {
			out[i] = s.Summarize(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Summarizer) ask(ctx context.Context, r spreadsheet.Report) (ProjectSummary, error) {
	if s.clients == nil {
		return ProjectSummary{}, llm.ErrNotConfigured
	}
	client, err := s.clients.Client(ctx)
	if err != nil {
		return ProjectSummary{}, err
	}

	prompt := BuildPrompt(r)
	key := util.HashKey(client.Name(), systemPrompt, prompt)
	if sum, ok := s.cached(ctx, key); ok {
		sum.ProjectName = r.ProjectName
		return sum, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Wait(callCtx); err != nil {
			return ProjectSummary{}, err
		}
	}

	start := time.Now()
	raw, err := client.Complete(callCtx, llm.Request{
		System:      systemPrompt,
		User:        prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		JSON:        true,
	})
	metrics.ObserveSummaryDurationMs(metrics.SinceMillis(start))
	if err != nil {
		return ProjectSummary{}, err
	}
	sum, err := ParseSummary(raw, r.ProjectName)
	if err != nil {
		return ProjectSummary{}, err
	}

	metrics.IncSummaryAI()
	telemetry.Info("insights.completed", map[string]any{
		"project":  r.ProjectName,
		"provider": client.Name(),
		"health":   string(sum.OverallHealth),
		"risk":     string(sum.RiskLevel),
	})
	s.store(ctx, key, sum)
	return sum, nil
}

func (s *Summarizer) cached(ctx context.Context, key string) (ProjectSummary, bool) {
	if s.opts.Cache == nil {
		return ProjectSummary{}, false
	}
	data, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			telemetry.Warn("insights.cache.get_failed", map[string]any{"err": err.Error()})
		}
		return ProjectSummary{}, false
	}
	var sum ProjectSummary
	if err := json.Unmarshal(data, &sum); err != nil {
		return ProjectSummary{}, false
	}
	metrics.IncSummaryCacheHit()
	return sum, true
}

func (s *Summarizer) store(ctx context.Context, key string, sum ProjectSummary) {
	if s.opts.Cache == nil {
		return
	}
	data, err := json.Marshal(sum)
	if err != nil {
		return
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		telemetry.Warn("insights.cache.set_failed", map[string]any{"err": err.Error()})
	}
}

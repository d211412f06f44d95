package insights

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/shared/cache"
	"portfolio-pulse/internal/shared/telemetry"
	"portfolio-pulse/internal/spreadsheet"
)

type fakeClient struct {
	mu    sync.Mutex
	calls int32
	reply string
	err   error
	block bool
	last  llm.Request
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeClient) Name() string { return "fake:model" }

type failingProvider struct{}

func (failingProvider) Client(ctx context.Context) (llm.Client, error) {
	return nil, errors.New("no active configuration")
}

func quiet(t *testing.T) {
	t.Helper()
	telemetry.SetOutput(&bytes.Buffer{})
}

var amberReport = spreadsheet.Report{ProjectName: "Alpha", WeekNumber: 3, HealthCurrentWeek: rag.Amber, ClientEscalation: "None"}

func TestSummarizeFallsBackOnProviderError(t *testing.T) {
	quiet(t)
	s := NewSummarizer(StaticClient{C: &fakeClient{err: errors.New("connection refused")}}, Options{})
	got := s.Summarize(context.Background(), amberReport)
	if got.OverallHealth != rag.Amber || got.RiskLevel != rag.RiskMedium {
		t.Fatalf("expected fallback Amber/Medium, got %s/%s", got.OverallHealth, got.RiskLevel)
	}
	if got.Summary != Fallback(amberReport).Summary {
		t.Fatalf("expected fallback summary, got %q", got.Summary)
	}
}

func TestSummarizeFallsBackWithoutClient(t *testing.T) {
	quiet(t)
	for _, p := range []ClientProvider{failingProvider{}, StaticClient{}, nil} {
		got := NewSummarizer(p, Options{}).Summarize(context.Background(), amberReport)
		if got.OverallHealth != rag.Amber {
			t.Fatalf("expected fallback, got %+v", got)
		}
	}
}

func TestSummarizeFallsBackOnNonJSON(t *testing.T) {
	quiet(t)
	s := NewSummarizer(StaticClient{C: &fakeClient{reply: "The project looks fine."}}, Options{})
	got := s.Summarize(context.Background(), amberReport)
	if got.Summary != Fallback(amberReport).Summary {
		t.Fatalf("expected fallback summary, got %q", got.Summary)
	}
}

func TestSummarizeTimeoutFallsBack(t *testing.T) {
	quiet(t)
	s := NewSummarizer(StaticClient{C: &fakeClient{block: true}}, Options{Timeout: 20 * time.Millisecond})
	start := time.Now()
	got := s.Summarize(context.Background(), amberReport)
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not applied")
	}
	if got.OverallHealth != rag.Amber || got.RiskLevel != rag.RiskMedium {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestSummarizeUsesModelReply(t *testing.T) {
	quiet(t)
	fc := &fakeClient{reply: `{"overallHealth":"Green","riskLevel":"Low","summary":"On track."}`}
	s := NewSummarizer(StaticClient{C: fc}, Options{})
	got := s.Summarize(context.Background(), amberReport)
	if got.OverallHealth != rag.Green || got.Summary != "On track." || got.ProjectName != "Alpha" {
		t.Fatalf("unexpected summary %+v", got)
	}
	if fc.last.System != systemPrompt || fc.last.MaxTokens != maxTokens || fc.last.Temperature != temperature || !fc.last.JSON {
		t.Fatalf("unexpected request %+v", fc.last)
	}
}

func TestSummarizeCachesOnlySuccess(t *testing.T) {
	quiet(t)
	c := cache.NewMemory()
	fc := &fakeClient{reply: `{"overallHealth":"Red","riskLevel":"High","summary":"Late."}`}
	s := NewSummarizer(StaticClient{C: fc}, Options{Cache: c, CacheTTL: time.Hour})

	first := s.Summarize(context.Background(), amberReport)
	second := s.Summarize(context.Background(), amberReport)
	if atomic.LoadInt32(&fc.calls) != 1 {
		t.Fatalf("expected one provider call, got %d", fc.calls)
	}
	if first.Summary != second.Summary || second.OverallHealth != rag.Red {
		t.Fatalf("cached summary differs: %+v vs %+v", first, second)
	}

	failing := &fakeClient{err: errors.New("down")}
	s = NewSummarizer(StaticClient{C: failing}, Options{Cache: c, CacheTTL: time.Hour})
	other := amberReport
	other.ProjectName = "Beta"
	s.Summarize(context.Background(), other)
	s.Summarize(context.Background(), other)
	if atomic.LoadInt32(&failing.calls) != 2 {
		t.Fatalf("fallback must not be cached, calls=%d", failing.calls)
	}
}

func TestSummarizeLimiterCancelledFallsBack(t *testing.T) {
	quiet(t)
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	lim.Allow()
	fc := &fakeClient{reply: `{"overallHealth":"Green"}`}
	s := NewSummarizer(StaticClient{C: fc}, Options{Limiter: lim, Timeout: 10 * time.Millisecond})
	got := s.Summarize(context.Background(), amberReport)
	if got.OverallHealth != rag.Amber || atomic.LoadInt32(&fc.calls) != 0 {
		t.Fatalf("expected fallback without provider call, got %+v calls=%d", got, fc.calls)
	}
}

func TestSummarizeAllKeepsOrder(t *testing.T) {
	quiet(t)
	s := NewSummarizer(StaticClient{C: &fakeClient{err: errors.New("down")}}, Options{})
	reports := []spreadsheet.Report{
		{ProjectName: "A", HealthCurrentWeek: rag.Red},
		{ProjectName: "B", HealthCurrentWeek: rag.Green},
		{ProjectName: "C", HealthCurrentWeek: rag.Amber},
	}
	out := s.SummarizeAll(context.Background(), reports, 2)
	for i, r := range reports {
		if out[i].ProjectName != r.ProjectName || out[i].OverallHealth != r.HealthCurrentWeek {
			t.Fatalf("index %d: got %+v", i, out[i])
		}
	}
}

package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	ingestFilesParsedTotal atomic.Uint64
	ingestFilesFailedTotal atomic.Uint64
	ingestReportsTotal     atomic.Uint64
	insightsAITotal        atomic.Uint64
	insightsFallbackTotal  atomic.Uint64
	insightsCacheHitsTotal atomic.Uint64
	ingestJobsReceived     atomic.Uint64
	ingestJobsFailed       atomic.Uint64
	ingestJobsCompleted    atomic.Uint64
	ingestJobsDropped      atomic.Uint64

	insightsDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncFilesParsed counts spreadsheets that parsed cleanly.
func IncFilesParsed() { ingestFilesParsedTotal.Add(1) }

// IncFilesFailed counts spreadsheets that could not be read or were malformed.
func IncFilesFailed() { ingestFilesFailedTotal.Add(1) }

// AddReports counts normalised report rows.
func AddReports(n int) {
	if n > 0 {
		ingestReportsTotal.Add(uint64(n))
	}
}

// IncSummaryAI counts summaries produced by the provider.
func IncSummaryAI() { insightsAITotal.Add(1) }

// IncSummaryFallback counts summaries produced by the deterministic fallback.
func IncSummaryFallback() { insightsFallbackTotal.Add(1) }

// IncSummaryCacheHit counts summaries served from cache.
func IncSummaryCacheHit() { insightsCacheHitsTotal.Add(1) }

// IncJobsReceived counts queue messages picked up by the worker.
func IncJobsReceived() { ingestJobsReceived.Add(1) }

// IncJobsFailed counts queue messages the worker could not process.
func IncJobsFailed() { ingestJobsFailed.Add(1) }

// IncJobsCompleted counts queue messages processed and deleted.
func IncJobsCompleted() { ingestJobsCompleted.Add(1) }

// IncJobsDropped counts malformed messages deleted without processing.
func IncJobsDropped() { ingestJobsDropped.Add(1) }

// ObserveSummaryDurationMs records one provider round trip in milliseconds.
func ObserveSummaryDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	insightsDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ingest_files_parsed_total", "Spreadsheets parsed", ingestFilesParsedTotal.Load())
	writeCounter(&buf, "ingest_files_failed_total", "Spreadsheets that failed to parse", ingestFilesFailedTotal.Load())
	writeCounter(&buf, "ingest_reports_total", "Report rows normalised", ingestReportsTotal.Load())
	writeCounter(&buf, "insights_ai_total", "Summaries produced by the provider", insightsAITotal.Load())
	writeCounter(&buf, "insights_fallback_total", "Summaries produced by the fallback", insightsFallbackTotal.Load())
	writeCounter(&buf, "insights_cache_hits_total", "Summaries served from cache", insightsCacheHitsTotal.Load())
	writeCounter(&buf, "ingest_jobs_received_total", "Ingest jobs received by the worker", ingestJobsReceived.Load())
	writeCounter(&buf, "ingest_jobs_failed_total", "Ingest jobs that failed", ingestJobsFailed.Load())
	writeCounter(&buf, "ingest_jobs_completed_total", "Ingest jobs completed", ingestJobsCompleted.Load())
	writeCounter(&buf, "ingest_jobs_dropped_total", "Malformed ingest jobs deleted", ingestJobsDropped.Load())
	writeHistogram(&buf, "insights_duration_ms", "Provider round trip in milliseconds", insightsDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts each value into every bucket at or above it.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

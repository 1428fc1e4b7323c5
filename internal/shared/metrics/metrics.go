package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisRequestsTotal  atomic.Uint64
	analysisRejectedTotal  atomic.Uint64
	analysisCompletedTotal atomic.Uint64
	analysisFailedTotal    atomic.Uint64
	analysisFallbackTotal  atomic.Uint64
	extractionFailedTotal  atomic.Uint64

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncAnalysisRequests increments the submitted analyses counter.
func IncAnalysisRequests() {
	analysisRequestsTotal.Add(1)
}

// IncAnalysisRejected increments the counter of submissions failing validation.
func IncAnalysisRejected() {
	analysisRejectedTotal.Add(1)
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompletedTotal.Add(1)
}

// IncAnalysisFailed increments the counter of failed upstream requests.
func IncAnalysisFailed() {
	analysisFailedTotal.Add(1)
}

// IncAnalysisFallback increments the counter of replies replaced by the fallback analysis.
func IncAnalysisFallback() {
	analysisFallbackTotal.Add(1)
}

// IncExtractionFailed increments the failed text extraction counter.
func IncExtractionFailed() {
	extractionFailedTotal.Add(1)
}

// ObserveLLMDurationMs records an upstream request duration in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
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
	writeCounter(&buf, "analysis_requests_total", "Total analyses submitted", analysisRequestsTotal.Load())
	writeCounter(&buf, "analysis_rejected_total", "Total analyses rejected by validation", analysisRejectedTotal.Load())
	writeCounter(&buf, "analysis_completed_total", "Total analyses completed", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Total analyses failed upstream", analysisFailedTotal.Load())
	writeCounter(&buf, "analysis_fallback_total", "Total analyses answered with the fallback result", analysisFallbackTotal.Load())
	writeCounter(&buf, "extraction_failed_total", "Total failed text extractions", extractionFailedTotal.Load())
	writeHistogram(&buf, "llm_duration_ms", "Upstream model request duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

// histogram keeps per-bucket counts; cumulative counts are computed on render.
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
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
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

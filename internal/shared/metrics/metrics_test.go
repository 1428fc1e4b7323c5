package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100, 1000})
	for _, v := range []float64{5, 50, 50, 500, 5000} {
		h.Observe(v)
	}
	var buf bytes.Buffer
	writeHistogram(&buf, "x", "test", h.Snapshot())
	out := buf.String()

	for _, want := range []string{
		`x_bucket{le="10"} 1`,
		`x_bucket{le="100"} 3`,
		`x_bucket{le="1000"} 4`,
		`x_bucket{le="+Inf"} 5`,
		`x_sum 5605`,
		`x_count 5`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncAnalysisFallback()
	out := Render()
	for _, name := range []string{"analysis_requests_total", "analysis_fallback_total", "extraction_failed_total", "llm_duration_ms_count"} {
		if !strings.Contains(out, name) {
			t.Fatalf("missing %s in render output", name)
		}
	}
}

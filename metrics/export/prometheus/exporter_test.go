package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	passgate "github.com/nvoid-labs/passgate"
)

type fakeSource struct {
	snapshot passgate.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) Metrics() passgate.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64              { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: passgate.MetricsSnapshot{
			Counters: map[passgate.MetricID]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounters(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: passgate.MetricsSnapshot{
			Counters: map[passgate.MetricID]uint64{
				passgate.MetricPasscodeIssued:        7,
				passgate.MetricPasscodeVerifyFailure: 3,
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "passgate_passcode_issued_total 7") {
		t.Fatalf("expected issued counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "passgate_passcode_verify_failure_total 3") {
		t.Fatalf("expected verify failure counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "passgate_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: passgate.MetricsSnapshot{
			Counters: map[passgate.MetricID]uint64{passgate.MetricPasscodeIssued: 1},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

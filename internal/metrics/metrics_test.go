package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/petnest/petnest/internal/domain/enums"
	"github.com/petnest/petnest/internal/domain/rules"
)

func TestDecisionCounter(t *testing.T) {
	m := New()
	m.ObserveDecision(enums.EntityKindAdRequest, rules.DecisionReject, "applied")
	m.ObserveDecision(enums.EntityKindAdRequest, rules.DecisionReject, "applied")
	m.ObserveDecision(enums.EntityKindAdRequest, rules.DecisionApprove, "conflict")

	got := testutil.ToFloat64(m.decisions.WithLabelValues("ad_request", "reject", "applied"))
	if got != 2 {
		t.Fatalf("unexpected reject counter: got %v want 2", got)
	}
}

func TestDecisionSeriesArePreregistered(t *testing.T) {
	m := New()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`petnest_moderation_decisions_total{decision="verify",kind="pet",outcome="applied"} 0`,
		`petnest_moderation_decisions_total{decision="reject",kind="ad_request",outcome="applied"} 0`,
		`petnest_moderation_decisions_total{decision="dismiss",kind="report",outcome="applied"} 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
	if strings.Contains(string(body), `decision="reject",kind="pet"`) {
		t.Fatalf("pets have no reject decision")
	}
}

func TestHandlerExposesRequestMetrics(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("GET", "/v1/api/admin/pets", 200, 15*time.Millisecond)
	m.RecordHTTPRequest("GET", "", 404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`petnest_http_requests_total{method="GET",route="/v1/api/admin/pets",status="200"} 1`,
		`petnest_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	m.ObserveDecision(enums.EntityKindPet, rules.DecisionVerify, "applied")
	m.CleanupDeleted(3)
}

package metrics

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	_ "modernc.org/sqlite"
)

func TestObserveRequestCountsByRouteAndStatus(t *testing.T) {
	m := New()
	m.ObserveRequest("/news", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest("/news", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("/news", "GET", "200")); got != 2 {
		t.Fatalf("news requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("unmatched requests = %v, want 1", got)
	}
}

func TestObservePostLabelsUnknownLanguage(t *testing.T) {
	m := New()
	m.ObservePost("en")
	m.ObservePost("")
	m.ObservePost("")

	if got := testutil.ToFloat64(m.PostsCreated.WithLabelValues("detected")); got != 1 {
		t.Fatalf("detected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PostsCreated.WithLabelValues("unknown")); got != 2 {
		t.Fatalf("unknown = %v, want 2", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, time.Second)
	m.ObservePost("en")
	m.ObserveFollow("follow", "ok")
	if err := m.RegisterDB(nil, "x"); err != nil {
		t.Fatalf("RegisterDB() = %v", err)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveFollow("follow", "ok")

	db, err := sql.Open("sqlite", t.TempDir()+"/metrics.db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if err := m.RegisterDB(db, "social"); err != nil {
		t.Fatalf("RegisterDB() = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`murmur_social_follow_mutations_total{operation="follow",outcome="ok"} 1`,
		`go_sql_open_connections{db_name="social"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestTrackInFlight(t *testing.T) {
	t.Parallel()

	m := New()
	done := m.TrackInFlight()
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 1 {
		t.Fatalf("in flight = %v, want 1", got)
	}
	done()
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}

	var nilMetrics *Metrics
	nilMetrics.TrackInFlight()()
}

package dwjdbc

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordSuccessfulQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, askResultsBody)
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()
	collector := NewMetricsCollectorWithRegistry(registry)
	client := New(server.URL, WithMetricsCollector(collector))
	defer client.Close()

	if _, err := client.ExecuteQuery(context.Background(), QueryRequest{Query: "ask {?s ?p ?o}"}); err != nil {
		t.Fatalf("ExecuteQuery() returned error: %v", err)
	}

	if got := testutil.ToFloat64(collector.queriesTotal.WithLabelValues("200")); got != 1 {
		t.Errorf("queriesTotal{200} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.queriesInFlight); got != 0 {
		t.Errorf("queriesInFlight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.responseBytes); got != float64(len(askResultsBody)) {
		t.Errorf("responseBytes = %v, want %d", got, len(askResultsBody))
	}
	if got := testutil.ToFloat64(collector.spillsTotal); got != 0 {
		t.Errorf("spillsTotal = %v, want 0 below threshold", got)
	}
}

func TestMetricsRecordSpill(t *testing.T) {
	big := `{"head": {"vars": ["s"]}, "results": {"bindings": [` +
		strings.Repeat(`{"s": {"type": "literal", "value": "xxxxxxxxxxxxxxxx"}},`, 500) +
		`{"s": {"type": "literal", "value": "y"}}]}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, big)
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()
	collector := NewMetricsCollectorWithRegistry(registry)
	client := New(server.URL,
		WithMetricsCollector(collector),
		WithSpillThreshold(512),
	)
	defer client.Close()

	if _, err := client.ExecuteQuery(context.Background(), QueryRequest{Query: "select ?s where {?s ?p ?o}"}); err != nil {
		t.Fatalf("ExecuteQuery() returned error: %v", err)
	}
	if got := testutil.ToFloat64(collector.spillsTotal); got != 1 {
		t.Errorf("spillsTotal = %v, want 1", got)
	}
}

func TestMetricsRecordErrorType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()
	collector := NewMetricsCollectorWithRegistry(registry)
	client := New(server.URL, WithMetricsCollector(collector))
	defer client.Close()

	if _, err := client.ExecuteQuery(context.Background(), QueryRequest{Query: "select 1"}); err == nil {
		t.Fatal("ExecuteQuery() succeeded against a 500")
	}
	if got := testutil.ToFloat64(collector.errorsTotal.WithLabelValues(ErrorTypeHTTPStatus)); got != 1 {
		t.Errorf("errorsTotal{HttpStatusFailure} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.queriesTotal.WithLabelValues("500")); got != 1 {
		t.Errorf("queriesTotal{500} = %v, want 1", got)
	}
}

package pagespeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestAnalyze_ValidationNeverReachesUpstream(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write(payload("0.9"))
	}))
	defer srv.Close()

	service := NewService(NewClient(srv.URL, ""))

	for _, in := range []AnalyzeInput{
		{},
		{URL: "not a url"},
		{URL: "https://example.com", Strategy: "tablet"},
	} {
		if _, err := service.Analyze(context.Background(), in); err == nil {
			t.Errorf("Analyze(%+v) succeeded, want validation error", in)
		}
	}

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Fatalf("upstream contacted %d times for invalid input", n)
	}
}

func TestAnalyze_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload("0.873"))
	}))
	defer srv.Close()

	service := NewService(NewClient(srv.URL, ""))
	report, err := service.Analyze(context.Background(), AnalyzeInput{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if report.PerformanceScore != 87 {
		t.Errorf("PerformanceScore = %d, want 87", report.PerformanceScore)
	}
	if report.Strategy != StrategyMobile {
		t.Errorf("Strategy = %s, want default mobile", report.Strategy)
	}
	if report.Timestamp.IsZero() {
		t.Error("Timestamp not set to capture time")
	}
}

func TestCompare_PartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("strategy") == string(StrategyDesktop) {
			time.Sleep(500 * time.Millisecond) // outlives the client timeout
		}
		w.Write(payload("0.9"))
	}))
	defer srv.Close()

	service := NewService(NewClient(srv.URL, "", WithTimeout(100*time.Millisecond)))
	result, err := service.Compare(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Compare() returned a request-level failure: %v", err)
	}

	if result.Mobile.Status != OutcomeSuccess {
		t.Fatalf("mobile outcome = %+v, want success", result.Mobile)
	}
	if result.Mobile.Score == nil || *result.Mobile.Score != 90 {
		t.Errorf("mobile score = %v, want 90", result.Mobile.Score)
	}

	if result.Desktop.Status != OutcomeFailed {
		t.Fatalf("desktop outcome = %+v, want failed", result.Desktop)
	}
	if result.Desktop.Score != nil {
		t.Errorf("desktop score = %v, want nil", *result.Desktop.Score)
	}
	if result.Desktop.Error == "" {
		t.Error("desktop outcome carries no error message")
	}
}

func TestCompare_BothBranchesSettle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"lighthouse crashed"}}`))
	}))
	defer srv.Close()

	service := NewService(NewClient(srv.URL, ""))
	result, err := service.Compare(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Compare() returned a request-level failure: %v", err)
	}

	for name, outcome := range map[string]StrategyOutcome{"mobile": result.Mobile, "desktop": result.Desktop} {
		if outcome.Status != OutcomeFailed || outcome.Error == "" {
			t.Errorf("%s outcome = %+v, want settled failure", name, outcome)
		}
	}
}

func TestCompare_ValidatesURL(t *testing.T) {
	service := NewService(NewClient("http://127.0.0.1:0", ""))

	_, err := service.Compare(context.Background(), "example.com")
	var classified *Error
	if !errors.As(err, &classified) || classified.Kind != KindInvalidURL {
		t.Fatalf("error = %v, want %s", err, KindInvalidURL)
	}
}

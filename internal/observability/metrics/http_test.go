package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareRecordsStatusAndNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/classify" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/classify", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/abc", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/def", nil))

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodPost, "/classify", "400")); got != 1 {
		t.Fatalf("expected one 400 on /classify, got %v", got)
	}
	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "/other", "404")); got != 2 {
		t.Fatalf("expected unknown paths folded into /other, got %v", got)
	}
	if got := testutil.ToFloat64(m.requestInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge back to 0, got %v", got)
	}
}

func TestPipelineRecorders(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.RecordClassification("resume", "not_image", 120*time.Millisecond)
	m.RecordClassification("", "", time.Millisecond)
	m.RecordClassificationError()
	m.ObserveOCR("ocr.tokens", "timeout", 8*time.Second)
	m.RecordRejection("rate_limited")

	if got := testutil.ToFloat64(m.classifiedTotal.WithLabelValues("api", "resume", "not_image")); got != 1 {
		t.Fatalf("expected resume classification counted, got %v", got)
	}
	if got := testutil.ToFloat64(m.classifiedTotal.WithLabelValues("api", "unknown", "unknown")); got != 1 {
		t.Fatalf("expected blank labels mapped to unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.classifyErrorTotal.WithLabelValues("api")); got != 1 {
		t.Fatalf("expected one classification error, got %v", got)
	}
	if got := testutil.ToFloat64(m.ocrCallsTotal.WithLabelValues("api", "ocr.tokens", "timeout")); got != 1 {
		t.Fatalf("expected one OCR timeout, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejectedTotal.WithLabelValues("api", "rate_limited")); got != 1 {
		t.Fatalf("expected one rejection, got %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.ObserveOCR("ocr.text", "ok", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hrdoc_ocr_calls_total") {
		t.Fatalf("expected OCR counter in exposition, got:\n%s", rec.Body.String())
	}
}

func TestResponseRecorderIsShared(t *testing.T) {
	base := httptest.NewRecorder()
	rec := NewResponseRecorder(base)
	if NewResponseRecorder(rec) != rec {
		t.Fatalf("expected an existing recorder to be reused")
	}
	if rec.Status() != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", rec.Status())
	}

	rec.WriteHeader(http.StatusCreated)
	if _, err := rec.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec.Flush()
	if rec.Status() != http.StatusCreated || rec.BytesWritten() != 5 || !base.Flushed {
		t.Fatalf("unexpected recorder state status=%d bytes=%d flushed=%v", rec.Status(), rec.BytesWritten(), base.Flushed)
	}
	if _, _, err := rec.Hijack(); err == nil {
		t.Fatalf("expected hijack error for a non-hijackable writer")
	}
}

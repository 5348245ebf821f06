package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/observability/metrics"
)

const (
	requestIDHeader = "X-Request-Id"

	// Longer client ids are replaced rather than echoed into logs.
	maxRequestIDLength = 128
)

type requestIDContextKey struct{}

type uploadContextKey struct{}

// uploadDetails is filled in by the classify handler and read back by the
// access log once the response is written.
type uploadDetails struct {
	format        domain.Format
	sizeBytes     int64
	documentType  string
	qualityReason domain.QualityReason
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)
	return requestID
}

func uploadFromContext(ctx context.Context) *uploadDetails {
	details, _ := ctx.Value(uploadContextKey{}).(*uploadDetails)
	return details
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := metrics.NewResponseRecorder(w)
		upload := &uploadDetails{}
		r = r.WithContext(context.WithValue(r.Context(), uploadContextKey{}, upload))

		next.ServeHTTP(recorder, r)

		remoteAddr := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			remoteAddr = host
		}

		logAttrs := []any{
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.Status(),
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"content_length", r.ContentLength,
			"bytes", recorder.BytesWritten(),
			"remote_addr", remoteAddr,
		}
		if upload.format != "" {
			logAttrs = append(logAttrs,
				"format", string(upload.format),
				"upload_bytes", upload.sizeBytes,
			)
		}
		if upload.documentType != "" {
			logAttrs = append(logAttrs,
				"document_type", upload.documentType,
				"quality_reason", string(upload.qualityReason),
			)
		}

		level := slog.LevelInfo
		switch {
		case recorder.Status() >= 500:
			level = slog.LevelError
		case recorder.Status() >= 400:
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "http_request", logAttrs...)
	})
}

package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/kirillkom/hr-document-classifier/internal/config"
	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
	"github.com/kirillkom/hr-document-classifier/internal/observability/metrics"
)

const (
	defaultMaxUploadBytes = 10 << 20

	serverExceptionHint = "Check that the file is a valid PDF, DOCX, JPG, PNG or TXT document and try again."
)

type Router struct {
	cfg        config.Config
	classifier ports.DocumentClassificationService
	metrics    *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	classifier ports.DocumentClassificationService,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:        cfg,
		classifier: classifier,
		metrics:    m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.health)
	mux.Handle("/classify", rt.trafficControl(http.HandlerFunc(rt.classifyDocument)))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = cors.New(cors.Options{
		AllowedOrigins: rt.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (rt *Router) classifyDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, domain.ErrorResponse{Error: "method not allowed"})
		return
	}

	limit := rt.cfg.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, domain.ErrorResponse{
				Error:  "file_too_large",
				Detail: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "No file"})
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if header.Filename == "" {
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "No file"})
		return
	}

	upload := uploadFromContext(r.Context())
	if upload != nil {
		upload.format = domain.FormatFromFilename(header.Filename)
		upload.sizeBytes = header.Size
	}

	start := time.Now()
	resp, err := rt.classifier.Classify(r.Context(), header.Filename, file)
	if err != nil {
		rt.writeClassifyError(w, r, err)
		return
	}
	if upload != nil {
		upload.documentType = resp.DocumentType
		upload.qualityReason = resp.QualityReason
	}
	if rt.metrics != nil {
		rt.metrics.RecordClassification(resp.DocumentType, string(resp.QualityReason), time.Since(start))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) writeClassifyError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status == http.StatusBadRequest {
		writeJSON(w, status, domain.ErrorResponse{Error: "invalid_input", Detail: err.Error()})
		return
	}

	slog.ErrorContext(r.Context(), "classify_failed",
		"request_id", requestIDFromContext(r.Context()),
		"error", err,
	)
	if rt.metrics != nil {
		rt.metrics.RecordClassificationError()
	}
	writeJSON(w, status, domain.ErrorResponse{
		Error:  "server_exception",
		Detail: err.Error(),
		Hint:   serverExceptionHint,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

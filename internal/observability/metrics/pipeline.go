package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type pipeline struct {
	classifiedTotal    *prometheus.CounterVec
	classifyDuration   *prometheus.HistogramVec
	classifyErrorTotal *prometheus.CounterVec
	ocrCallsTotal      *prometheus.CounterVec
	ocrDuration        *prometheus.HistogramVec
}

func newPipeline() pipeline {
	return pipeline{
		classifiedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "documents_classified_total",
				Help:      "Classified documents by type and quality reason.",
			},
			[]string{"service", "document_type", "quality_reason"},
		),
		classifyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "classify_duration_seconds",
				Help:      "End-to-end classification duration in seconds.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 30},
			},
			[]string{"service"},
		),
		classifyErrorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "classify_errors_total",
				Help:      "Classification requests that ended in a server error.",
			},
			[]string{"service"},
		),
		ocrCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ocr",
				Name:      "calls_total",
				Help:      "OCR backend calls by operation and outcome.",
			},
			[]string{"service", "operation", "outcome"},
		),
		ocrDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ocr",
				Name:      "call_duration_seconds",
				Help:      "Time the caller waited on OCR, in seconds.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"service", "operation"},
		),
	}
}

func (p pipeline) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.classifiedTotal,
		p.classifyDuration,
		p.classifyErrorTotal,
		p.ocrCallsTotal,
		p.ocrDuration,
	}
}

func (p pipeline) recordClassification(service, documentType, qualityReason string, duration time.Duration) {
	if documentType == "" {
		documentType = "unknown"
	}
	if qualityReason == "" {
		qualityReason = "unknown"
	}
	p.classifiedTotal.WithLabelValues(service, documentType, qualityReason).Inc()
	p.classifyDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (p pipeline) recordError(service string) {
	p.classifyErrorTotal.WithLabelValues(service).Inc()
}

func (p pipeline) observeOCR(service, operation, outcome string, duration time.Duration) {
	p.ocrCallsTotal.WithLabelValues(service, operation, outcome).Inc()
	p.ocrDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

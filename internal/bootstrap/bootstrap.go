package bootstrap

import (
	"fmt"
	"time"

	"github.com/kirillkom/hr-document-classifier/internal/config"
	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
	"github.com/kirillkom/hr-document-classifier/internal/core/usecase"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/classifier/keyword"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/extractor"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/extractor/docx"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/extractor/ocrimage"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/ocr"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/preprocess"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/resilience"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Rules      *domain.RuleSet
	Stager     *localfs.Stager
	ClassifyUC ports.DocumentClassificationService
}

// New assembles the classification pipeline around an OCR backend. The
// backend is passed in so the cgo-bound engine stays in the binaries.
func New(cfg config.Config, backend ocr.Backend, observer ocr.Observer) (*App, error) {
	rules, err := keyword.LoadRules(cfg.ClassifierRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier rules: %w", err)
	}

	stager, err := localfs.New(cfg.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("init staging: %w", err)
	}

	engine := ocr.NewGuard(backend, ocr.Options{
		Timeout:  time.Duration(cfg.OCRTimeoutSeconds) * time.Second,
		Breakers: resilience.NewBreakers(breakerConfig(cfg)),
		Observer: observer,
	})
	preprocessor := preprocess.New(cfg.OCRMaxDimension)

	imageText := ocrimage.NewExtractor(preprocessor, engine)
	dispatcher := extractor.NewDispatcher(map[domain.Format]extractor.Strategy{
		domain.FormatPDF:  pdf.NewExtractor(),
		domain.FormatDOCX: docx.NewExtractor(),
		domain.FormatJPEG: imageText,
		domain.FormatPNG:  imageText,
		domain.FormatText: plaintext.NewExtractor(),
	})

	gate := usecase.NewReadabilityGateUseCase(preprocessor, engine, usecase.ReadabilityThresholds{
		MinConfidence: cfg.ReadabilityMinConfidence,
		MinTextLength: cfg.ReadabilityMinTextLength,
	})

	classifyUC := usecase.NewClassifyDocumentUseCase(
		stager,
		gate,
		dispatcher,
		keyword.NewClassifier(rules),
	)

	return &App{
		Config:     cfg,
		Rules:      rules,
		Stager:     stager,
		ClassifyUC: classifyUC,
	}, nil
}

func breakerConfig(cfg config.Config) resilience.Config {
	out := resilience.Config{
		Enabled:      cfg.OCRBreakerEnabled,
		FailureRatio: cfg.OCRBreakerFailureRatio,
		OpenTimeout:  time.Duration(cfg.OCRBreakerOpenTimeoutMS) * time.Millisecond,
	}
	if cfg.OCRBreakerMinRequests > 0 {
		out.MinRequests = uint32(cfg.OCRBreakerMinRequests)
	}
	if cfg.OCRBreakerHalfOpenMaxCalls > 0 {
		out.HalfOpenMaxCalls = uint32(cfg.OCRBreakerHalfOpenMaxCalls)
	}
	return out
}

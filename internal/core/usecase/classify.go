package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
)

type ClassifyDocumentUseCase struct {
	stager     ports.InputStager
	gate       ports.ReadabilityGate
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
}

func NewClassifyDocumentUseCase(
	stager ports.InputStager,
	gate ports.ReadabilityGate,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
) *ClassifyDocumentUseCase {
	return &ClassifyDocumentUseCase{
		stager:     stager,
		gate:       gate,
		extractor:  extractor,
		classifier: classifier,
	}
}

// Classify stages the upload, assesses image readability alongside text
// extraction, and classifies the text. The staged copy is removed on every
// return path. Extraction and OCR failures degrade the result; only staging
// failures and panics are returned as errors.
func (uc *ClassifyDocumentUseCase) Classify(
	ctx context.Context,
	filename string,
	body io.Reader,
) (resp *domain.ClassificationResponse, err error) {
	if body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "classify document", errors.New("no file"))
	}

	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = domain.WrapError(domain.ErrInternal, "classify document", fmt.Errorf("panic: %v", r))
		}
	}()

	start := time.Now()
	format := domain.FormatFromFilename(filename)

	path, err := uc.stager.Stage(ctx, filename, body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInternal, "stage input", err)
	}
	defer uc.release(ctx, path)

	report, text, err := uc.inspect(ctx, path, format)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInternal, "inspect document", err)
	}

	classification := domain.Classification{
		DocumentType: domain.DocumentTypeOthers,
		Confidence:   domain.EmptyTextConfidence,
	}
	if strings.TrimSpace(text) != "" {
		classification, err = uc.classifier.Classify(ctx, text)
		if err != nil {
			return nil, domain.WrapError(domain.ErrInternal, "classify text", err)
		}
	}

	slog.InfoContext(ctx, "document_classified",
		"format", string(format),
		"document_type", classification.DocumentType,
		"confidence", classification.Confidence,
		"quality_reason", string(report.QualityReason),
		"text_chars", len(text),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)

	return &domain.ClassificationResponse{
		Classification: classification,
		QualityReport:  report,
	}, nil
}

// inspect runs the readability gate (images only) concurrently with text
// extraction. Panics on either goroutine surface as an error.
func (uc *ClassifyDocumentUseCase) inspect(
	ctx context.Context,
	path string,
	format domain.Format,
) (domain.QualityReport, string, error) {
	report := domain.NotImageReport()
	var text string

	g, gctx := errgroup.WithContext(ctx)
	if format.IsImage() && uc.gate != nil {
		g.Go(func() error {
			return recoverStage("readability", func() {
				report = uc.gate.Assess(gctx, path)
			})
		})
	}
	g.Go(func() error {
		return recoverStage("extraction", func() {
			text = uc.extractor.Extract(gctx, path, format)
		})
	})
	if err := g.Wait(); err != nil {
		return domain.QualityReport{}, "", err
	}
	return report, text, nil
}

func (uc *ClassifyDocumentUseCase) release(ctx context.Context, path string) {
	if err := uc.stager.Remove(path); err != nil {
		slog.WarnContext(ctx, "staged_input_cleanup_failed", "path", path, "error", err)
	}
}

func recoverStage(stage string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panic: %v", stage, r)
		}
	}()
	fn()
	return nil
}

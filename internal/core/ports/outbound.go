package ports

import (
	"context"
	"image"
	"io"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

// InputStager keeps an uploaded document on local disk for one request.
type InputStager interface {
	Stage(ctx context.Context, filename string, body io.Reader) (string, error)
	Remove(path string) error
}

// ImagePreprocessor decodes and normalizes a raster image for OCR.
type ImagePreprocessor interface {
	Preprocess(r io.Reader) (*image.Gray, error)
}

// OCREngine recognizes text on a preprocessed image. Implementations return
// domain.ErrOCRTimeout or domain.ErrOCREngine kinds on failure.
type OCREngine interface {
	RecognizeText(ctx context.Context, img image.Image) (string, error)
	RecognizeTokens(ctx context.Context, img image.Image) ([]domain.OCRToken, error)
}

// ReadabilityGate produces the quality report for a staged image. It never fails.
type ReadabilityGate interface {
	Assess(ctx context.Context, path string) domain.QualityReport
}

// TextExtractor returns lowercase text for a staged document, "" when nothing
// could be recovered.
type TextExtractor interface {
	Extract(ctx context.Context, path string, format domain.Format) string
}

// DocumentClassifier scores extracted text against the rule set.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
}

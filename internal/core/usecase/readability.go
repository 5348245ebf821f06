package usecase

import (
	"context"
	"log/slog"
	"math"
	"os"
	"strconv"
	"unicode"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
)

const (
	DefaultMinOCRConfidence = 0.45
	DefaultMinTextLength    = 25
)

type ReadabilityThresholds struct {
	MinConfidence float64
	MinTextLength int
}

func DefaultReadabilityThresholds() ReadabilityThresholds {
	return ReadabilityThresholds{
		MinConfidence: DefaultMinOCRConfidence,
		MinTextLength: DefaultMinTextLength,
	}
}

// ReadabilityGateUseCase scores how usable an image is for classification.
// Both OCR passes run on the same preprocessed image.
type ReadabilityGateUseCase struct {
	preprocessor ports.ImagePreprocessor
	engine       ports.OCREngine
	thresholds   ReadabilityThresholds
}

func NewReadabilityGateUseCase(
	preprocessor ports.ImagePreprocessor,
	engine ports.OCREngine,
	thresholds ReadabilityThresholds,
) *ReadabilityGateUseCase {
	def := DefaultReadabilityThresholds()
	if thresholds.MinConfidence <= 0 {
		thresholds.MinConfidence = def.MinConfidence
	}
	if thresholds.MinTextLength <= 0 {
		thresholds.MinTextLength = def.MinTextLength
	}
	return &ReadabilityGateUseCase{
		preprocessor: preprocessor,
		engine:       engine,
		thresholds:   thresholds,
	}
}

// Assess never fails: every error path maps to an unreadable report.
func (uc *ReadabilityGateUseCase) Assess(ctx context.Context, path string) (report domain.QualityReport) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "readability_gate_panic", "panic", r)
			report = domain.UnreadableReport(domain.QualityOCRProcessingError)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		slog.WarnContext(ctx, "readability_open_failed", "error", err)
		return domain.UnreadableReport(domain.QualityOCRProcessingError)
	}
	defer f.Close()

	img, err := uc.preprocessor.Preprocess(f)
	if err != nil {
		slog.WarnContext(ctx, "readability_preprocess_failed", "error", err)
		return domain.UnreadableReport(domain.QualityOCRProcessingError)
	}

	tokens, err := uc.engine.RecognizeTokens(ctx, img)
	if err != nil {
		return ocrFailureReport(ctx, err)
	}
	confidence := MeanConfidence(tokens)

	text, err := uc.engine.RecognizeText(ctx, img)
	if err != nil {
		return ocrFailureReport(ctx, err)
	}

	return Decide(confidence, SignalLength(text), uc.thresholds)
}

// MeanConfidence averages token confidences >= 0 and normalizes the 0-100
// engine scale to [0,1] with two decimals. The scaled mean is rounded on its
// exact binary value, ties to even, so 12.5 reports 0.12 and 2.5 reports 0.03.
// Negative confidences mark regions without text and are left out.
func MeanConfidence(tokens []domain.OCRToken) float64 {
	var sum float64
	n := 0
	for _, tok := range tokens {
		if math.IsNaN(tok.Confidence) || tok.Confidence < 0 {
			continue
		}
		sum += tok.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return roundCents(sum / float64(n) / 100)
}

func roundCents(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	return rounded
}

// SignalLength counts letters and digits only.
func SignalLength(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// Decide applies the confidence check before the length check.
func Decide(confidence float64, textLength int, th ReadabilityThresholds) domain.QualityReport {
	report := domain.QualityReport{
		Readable:      true,
		OCRConfidence: &confidence,
		TextLength:    &textLength,
		QualityReason: domain.QualityOK,
	}
	switch {
	case confidence < th.MinConfidence:
		report.Readable = false
		report.QualityReason = domain.QualityLowOCRConfidence
	case textLength < th.MinTextLength:
		report.Readable = false
		report.QualityReason = domain.QualityTooLittleText
	}
	return report
}

func ocrFailureReport(ctx context.Context, err error) domain.QualityReport {
	if domain.IsKind(err, domain.ErrOCRTimeout) {
		slog.WarnContext(ctx, "readability_ocr_timeout", "error", err)
		return domain.UnreadableReport(domain.QualityOCRTimeout)
	}
	slog.WarnContext(ctx, "readability_ocr_failed", "error", err)
	return domain.UnreadableReport(domain.QualityTesseractError)
}

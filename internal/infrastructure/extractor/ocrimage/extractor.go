package ocrimage

import (
	"context"
	"fmt"
	"os"

	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
)

// Extractor preprocesses a staged JPEG/PNG and runs full-text OCR on it.
type Extractor struct {
	preprocessor ports.ImagePreprocessor
	engine       ports.OCREngine
}

func NewExtractor(preprocessor ports.ImagePreprocessor, engine ports.OCREngine) *Extractor {
	return &Extractor{
		preprocessor: preprocessor,
		engine:       engine,
	}
}

func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, err := e.preprocessor.Preprocess(f)
	if err != nil {
		return "", fmt.Errorf("preprocess image: %w", err)
	}
	text, err := e.engine.RecognizeText(ctx, img)
	if err != nil {
		return "", fmt.Errorf("ocr image: %w", err)
	}
	return text, nil
}

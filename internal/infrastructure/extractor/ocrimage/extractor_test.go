package ocrimage

import (
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

type preprocessorFake struct {
	img *image.Gray
	err error
	raw []byte
}

func (f *preprocessorFake) Preprocess(r io.Reader) (*image.Gray, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.raw = raw
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type engineFake struct {
	text string
	err  error
	got  image.Image
}

func (f *engineFake) RecognizeText(_ context.Context, img image.Image) (string, error) {
	f.got = img
	return f.text, f.err
}

func (f *engineFake) RecognizeTokens(context.Context, image.Image) ([]domain.OCRToken, error) {
	return nil, nil
}

func stage(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestExtractRunsOCROnPreprocessedImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	pre := &preprocessorFake{img: gray}
	engine := &engineFake{text: "Certificate of Live Birth"}

	text, err := NewExtractor(pre, engine).Extract(context.Background(), stage(t, "png-bytes"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Certificate of Live Birth" {
		t.Fatalf("unexpected text %q", text)
	}
	if string(pre.raw) != "png-bytes" {
		t.Fatalf("preprocessor did not receive staged bytes: %q", pre.raw)
	}
	if engine.got != image.Image(gray) {
		t.Fatalf("engine did not receive the preprocessed image")
	}
}

func TestExtractPropagatesTimeout(t *testing.T) {
	engine := &engineFake{err: domain.WrapError(domain.ErrOCRTimeout, "ocr.text", context.DeadlineExceeded)}
	_, err := NewExtractor(&preprocessorFake{img: image.NewGray(image.Rect(0, 0, 1, 1))}, engine).
		Extract(context.Background(), stage(t, "x"))
	if !domain.IsKind(err, domain.ErrOCRTimeout) {
		t.Fatalf("expected ErrOCRTimeout, got %v", err)
	}
}

func TestExtractPreprocessFailure(t *testing.T) {
	errDecode := errors.New("decode image: unknown format")
	_, err := NewExtractor(&preprocessorFake{err: errDecode}, &engineFake{}).
		Extract(context.Background(), stage(t, "x"))
	if !errors.Is(err, errDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

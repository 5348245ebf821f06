// Package tesseract adapts the gosseract client to the OCR backend contract.
package tesseract

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

const DefaultPageSegMode = int(gosseract.PSM_AUTO)

// Engine applies one fixed profile (languages + page segmentation mode) to
// every call. A fresh client is created per call since clients are not safe
// for concurrent use.
type Engine struct {
	languages     []string
	pageSegMode   gosseract.PageSegMode
	clientFactory func() *gosseract.Client
}

func NewEngine(languages []string, pageSegMode int) *Engine {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Engine{
		languages:     append([]string(nil), languages...),
		pageSegMode:   gosseract.PageSegMode(pageSegMode),
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Text(img image.Image) (string, error) {
	c, err := e.client(img)
	if err != nil {
		return "", err
	}
	defer c.Close()

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

func (e *Engine) Tokens(img image.Image) ([]domain.OCRToken, error) {
	c, err := e.client(img)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}
	tokens := make([]domain.OCRToken, 0, len(boxes))
	for _, b := range boxes {
		tokens = append(tokens, domain.OCRToken{
			Text:       b.Word,
			Confidence: b.Confidence,
			Box:        b.Box,
		})
	}
	return tokens, nil
}

func (e *Engine) client(img image.Image) (*gosseract.Client, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image for ocr: %w", err)
	}

	c := e.clientFactory()
	if err := c.SetLanguage(e.languages...); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetPageSegMode(e.pageSegMode); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("set image: %w", err)
	}
	return c, nil
}

// Version reports the linked Tesseract library version.
func Version() string {
	return gosseract.Version()
}

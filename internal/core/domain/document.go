package domain

import (
	"image"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatJPEG    Format = "image/jpeg"
	FormatPNG     Format = "image/png"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

// FormatFromFilename derives the document format from the extension only.
// A name that is nothing but a leading dot and an extension, like ".pdf", has
// no extension.
func FormatFromFilename(filename string) Format {
	ext := filepath.Ext(filename)
	if strings.TrimLeft(filepath.Base(filename), ".") == strings.TrimPrefix(ext, ".") {
		return FormatUnknown
	}
	switch strings.ToLower(ext) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	case ".txt":
		return FormatText
	default:
		return FormatUnknown
	}
}

func (f Format) IsImage() bool {
	return f == FormatJPEG || f == FormatPNG
}

type QualityReason string

const (
	QualityOK                 QualityReason = "ok"
	QualityLowOCRConfidence   QualityReason = "low_ocr_confidence"
	QualityTooLittleText      QualityReason = "too_little_text"
	QualityOCRTimeout         QualityReason = "ocr_timeout"
	QualityTesseractError     QualityReason = "tesseract_error"
	QualityOCRProcessingError QualityReason = "ocr_processing_error"
	QualityNotImage           QualityReason = "not_image"
)

// QualityReport is the readability verdict for an image input. Confidence and
// TextLength are nil for non-image inputs and serialize as JSON null.
type QualityReport struct {
	Readable      bool          `json:"readable"`
	OCRConfidence *float64      `json:"ocr_confidence"`
	TextLength    *int          `json:"text_length"`
	QualityReason QualityReason `json:"quality_reason"`
}

func NotImageReport() QualityReport {
	return QualityReport{
		Readable:      true,
		QualityReason: QualityNotImage,
	}
}

// UnreadableReport is the zeroed report used for every OCR failure path.
func UnreadableReport(reason QualityReason) QualityReport {
	confidence := 0.0
	length := 0
	return QualityReport{
		Readable:      false,
		OCRConfidence: &confidence,
		TextLength:    &length,
		QualityReason: reason,
	}
}

type Classification struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
}

const (
	DocumentTypeOthers = "others"

	// EmptyTextConfidence is returned when extraction recovered no text.
	EmptyTextConfidence = 0.50
	// NoMatchConfidence is returned when text exists but no keyword matched.
	NoMatchConfidence = 0.55
)

// ClassificationResponse merges the classification with the quality report.
type ClassificationResponse struct {
	Classification
	QualityReport
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

// OCRToken is one recognized fragment. Confidence is on the engine's 0-100
// scale; negative values mark regions without text.
type OCRToken struct {
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Box        image.Rectangle `json:"box"`
}

package ports

import (
	"context"
	"io"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

// DocumentClassificationService is the inbound contract for classifying one
// uploaded document.
type DocumentClassificationService interface {
	Classify(ctx context.Context, filename string, body io.Reader) (*domain.ClassificationResponse, error)
}

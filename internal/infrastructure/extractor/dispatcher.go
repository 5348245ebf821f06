package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

// Strategy extracts raw text from a staged document of one format.
type Strategy interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Dispatcher routes a staged document to its format strategy. Strategy
// failures are logged and collapse to empty text.
type Dispatcher struct {
	strategies map[domain.Format]Strategy
}

func NewDispatcher(strategies map[domain.Format]Strategy) *Dispatcher {
	copied := make(map[domain.Format]Strategy, len(strategies))
	for format, s := range strategies {
		if s != nil {
			copied[format] = s
		}
	}
	return &Dispatcher{strategies: copied}
}

func (d *Dispatcher) Extract(ctx context.Context, path string, format domain.Format) string {
	text, err := d.extract(ctx, path, format)
	if err != nil {
		slog.WarnContext(ctx, "text_extraction_failed", "format", string(format), "error", err)
		return ""
	}
	return strings.ToLower(text)
}

func (d *Dispatcher) extract(ctx context.Context, path string, format domain.Format) (text string, err error) {
	strategy, ok := d.strategies[format]
	if !ok {
		if format == domain.FormatUnknown {
			return "", nil
		}
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("no strategy for %s", format))
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extract %s: panic: %v", format, r)
		}
	}()
	return strategy.Extract(ctx, path)
}

package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
)

type strategyFake struct {
	text  string
	err   error
	panic bool
	calls int
}

func (f *strategyFake) Extract(context.Context, string) (string, error) {
	f.calls++
	if f.panic {
		panic("parser blew up")
	}
	return f.text, f.err
}

func TestExtractDispatchesByFormatAndLowercases(t *testing.T) {
	pdf := &strategyFake{text: "Bureau of Internal Revenue"}
	txt := &strategyFake{text: "unused"}
	d := NewDispatcher(map[domain.Format]Strategy{
		domain.FormatPDF:  pdf,
		domain.FormatText: txt,
	})

	got := d.Extract(context.Background(), "/tmp/x.pdf", domain.FormatPDF)
	if got != "bureau of internal revenue" {
		t.Fatalf("unexpected text %q", got)
	}
	if pdf.calls != 1 || txt.calls != 0 {
		t.Fatalf("unexpected dispatch: pdf=%d txt=%d", pdf.calls, txt.calls)
	}
}

func TestExtractCollapsesErrorsToEmptyText(t *testing.T) {
	d := NewDispatcher(map[domain.Format]Strategy{
		domain.FormatDOCX: &strategyFake{text: "partial", err: errors.New("corrupt archive")},
	})
	if got := d.Extract(context.Background(), "/tmp/x.docx", domain.FormatDOCX); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractRecoversStrategyPanic(t *testing.T) {
	d := NewDispatcher(map[domain.Format]Strategy{
		domain.FormatPDF: &strategyFake{panic: true},
	})
	if got := d.Extract(context.Background(), "/tmp/x.pdf", domain.FormatPDF); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractUnknownAndUnregisteredFormats(t *testing.T) {
	d := NewDispatcher(nil)
	if got := d.Extract(context.Background(), "/tmp/x.bin", domain.FormatUnknown); got != "" {
		t.Fatalf("expected empty text for unknown format, got %q", got)
	}
	text, err := d.extract(context.Background(), "/tmp/x.png", domain.FormatPNG)
	if text != "" || !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %q %v", text, err)
	}
}

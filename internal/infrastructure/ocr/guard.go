package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/resilience"
)

const DefaultTimeout = 8 * time.Second

const (
	OperationText   = "ocr.text"
	OperationTokens = "ocr.tokens"
)

// Backend is a blocking OCR engine. Calls cannot be cancelled once started.
type Backend interface {
	Text(img image.Image) (string, error)
	Tokens(img image.Image) ([]domain.OCRToken, error)
}

// Observer receives one observation per guarded call.
type Observer interface {
	ObserveOCR(operation, outcome string, duration time.Duration)
}

// Guard bounds every backend call with a deadline and a circuit breaker. On
// deadline the caller stops waiting; the backend call keeps running and its
// result is discarded.
type Guard struct {
	backend  Backend
	timeout  time.Duration
	breakers *resilience.Breakers
	observer Observer
}

type Options struct {
	Timeout  time.Duration
	Breakers *resilience.Breakers
	Observer Observer
}

func NewGuard(backend Backend, opts Options) *Guard {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{
		backend:  backend,
		timeout:  timeout,
		breakers: opts.Breakers,
		observer: opts.Observer,
	}
}

func (g *Guard) RecognizeText(ctx context.Context, img image.Image) (string, error) {
	var text string
	err := g.run(ctx, OperationText, func() error {
		out, err := g.backend.Text(img)
		text = out
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *Guard) RecognizeTokens(ctx context.Context, img image.Image) ([]domain.OCRToken, error) {
	var tokens []domain.OCRToken
	err := g.run(ctx, OperationTokens, func() error {
		out, err := g.backend.Tokens(img)
		tokens = out
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (g *Guard) run(ctx context.Context, operation string, call func() error) error {
	start := time.Now()
	err := g.breakers.Execute(ctx, operation, func(ctx context.Context) error {
		return g.bounded(ctx, operation, call)
	}, recordOCRFailure)
	if err != nil && resilience.IsCircuitOpen(err) {
		err = domain.WrapError(domain.ErrOCREngine, operation, err)
	}
	g.observe(operation, outcome(err), time.Since(start))
	return err
}

// bounded runs call on its own goroutine. The result channel is buffered so a
// late backend result never blocks the abandoned goroutine.
func (g *Guard) bounded(ctx context.Context, operation string, call func() error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("backend panic: %v", r)
			}
		}()
		done <- call()
	}()

	select {
	case err := <-done:
		if err != nil {
			return domain.WrapError(domain.ErrOCREngine, operation, err)
		}
		return nil
	case <-ctx.Done():
		return domain.WrapError(domain.ErrOCRTimeout, operation, ctx.Err())
	}
}

func (g *Guard) observe(operation, outcome string, duration time.Duration) {
	if g.observer == nil {
		return
	}
	g.observer.ObserveOCR(operation, outcome, duration)
}

func recordOCRFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsKind(err, domain.ErrOCRTimeout):
		return "timeout"
	case resilience.IsCircuitOpen(err):
		return "circuit_open"
	default:
		return "error"
	}
}

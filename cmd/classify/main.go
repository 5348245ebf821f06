package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kirillkom/hr-document-classifier/internal/adapters/cli"
	"github.com/kirillkom/hr-document-classifier/internal/bootstrap"
	"github.com/kirillkom/hr-document-classifier/internal/config"
	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
	"github.com/kirillkom/hr-document-classifier/internal/infrastructure/ocr/tesseract"
	"github.com/kirillkom/hr-document-classifier/internal/observability/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
	// Results own stdout.
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "classify", level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewClassifyCommand(func(cfg config.Config) (ports.DocumentClassificationService, error) {
		engine := tesseract.NewEngine(cfg.OCRLanguages, cfg.OCRPageSegMode)
		app, err := bootstrap.New(cfg, engine, nil)
		if err != nil {
			return nil, err
		}
		return app.ClassifyUC, nil
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

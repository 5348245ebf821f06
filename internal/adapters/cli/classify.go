// Package cli exposes the classification pipeline as a batch command over
// local files.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/hr-document-classifier/internal/config"
	"github.com/kirillkom/hr-document-classifier/internal/core/domain"
	"github.com/kirillkom/hr-document-classifier/internal/core/ports"
)

// ServiceFactory builds the pipeline once flags have been applied to cfg.
type ServiceFactory func(cfg config.Config) (ports.DocumentClassificationService, error)

type fileResult struct {
	File string `json:"file"`
	*domain.ClassificationResponse
	*domain.ErrorResponse
}

func NewClassifyCommand(build ServiceFactory) *cobra.Command {
	var (
		rulesPath    string
		stagingDir   string
		languages    []string
		ocrTimeout   time.Duration
		maxDimension int
		pretty       bool
	)

	cmd := &cobra.Command{
		Use:          "classify [files...]",
		Short:        "Classify HR documents from local files",
		Long:         "Runs each file through extraction, the image readability check and keyword classification, printing one JSON result per file.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags := cmd.Flags()
			if flags.Changed("rules") {
				cfg.ClassifierRulesPath = rulesPath
			}
			if flags.Changed("staging-dir") {
				cfg.StagingDir = stagingDir
			}
			if flags.Changed("lang") {
				cfg.OCRLanguages = languages
			}
			if flags.Changed("ocr-timeout") {
				cfg.OCRTimeoutSeconds = max(1, int(ocrTimeout.Round(time.Second)/time.Second))
			}
			if flags.Changed("max-dimension") {
				cfg.OCRMaxDimension = maxDimension
			}

			svc, err := build(cfg)
			if err != nil {
				return err
			}
			return classifyFiles(cmd.Context(), svc, args, cmd.OutOrStdout(), pretty)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule set replacing the built-in categories")
	cmd.Flags().StringVar(&stagingDir, "staging-dir", "", "directory for temporary copies")
	cmd.Flags().StringSliceVar(&languages, "lang", nil, "OCR languages, e.g. eng,fil")
	cmd.Flags().DurationVar(&ocrTimeout, "ocr-timeout", 8*time.Second, "deadline for each OCR call")
	cmd.Flags().IntVar(&maxDimension, "max-dimension", 1600, "longest image side before OCR")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

// classifyFiles keeps going after a failed file and reports the failure
// count once all files are done.
func classifyFiles(ctx context.Context, svc ports.DocumentClassificationService, paths []string, out io.Writer, pretty bool) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, path := range paths {
		result := classifyFile(ctx, svc, path)
		if result.ErrorResponse != nil {
			failed++
		}
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func classifyFile(ctx context.Context, svc ports.DocumentClassificationService, path string) fileResult {
	result := fileResult{File: path}

	f, err := os.Open(path)
	if err != nil {
		result.ErrorResponse = &domain.ErrorResponse{Error: "No file", Detail: err.Error()}
		return result
	}
	defer f.Close()

	resp, err := svc.Classify(ctx, filepath.Base(path), f)
	if err != nil {
		slog.ErrorContext(ctx, "classify_failed", "file", path, "error", err)
		result.ErrorResponse = &domain.ErrorResponse{Error: "server_exception", Detail: err.Error()}
		return result
	}
	result.ClassificationResponse = resp
	return result
}

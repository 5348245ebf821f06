package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES", "OCR_TIMEOUT_SECONDS",
		"OCR_MAX_DIMENSION", "OCR_LANGUAGES", "READABILITY_MIN_CONFIDENCE",
		"READABILITY_MIN_TEXT_LENGTH", "OCR_BREAKER_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.APIPort != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.APIPort)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://e201filems.infinityfree.me"}) {
		t.Fatalf("unexpected default origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10 MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.OCRTimeoutSeconds != 8 || cfg.OCRMaxDimension != 1600 {
		t.Fatalf("unexpected OCR defaults: timeout=%d max=%d", cfg.OCRTimeoutSeconds, cfg.OCRMaxDimension)
	}
	if !reflect.DeepEqual(cfg.OCRLanguages, []string{"eng"}) {
		t.Fatalf("unexpected default languages %v", cfg.OCRLanguages)
	}
	if cfg.ReadabilityMinConfidence != 0.45 || cfg.ReadabilityMinTextLength != 25 {
		t.Fatalf("unexpected readability defaults: %v %d", cfg.ReadabilityMinConfidence, cfg.ReadabilityMinTextLength)
	}
	if !cfg.OCRBreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("API_PORT", "8088")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("OCR_LANGUAGES", "eng,fil")
	t.Setenv("READABILITY_MIN_CONFIDENCE", "0.6")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("OCR_BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.APIPort != "8088" {
		t.Fatalf("expected port override, got %q", cfg.APIPort)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.OCRLanguages, []string{"eng", "fil"}) {
		t.Fatalf("unexpected languages %v", cfg.OCRLanguages)
	}
	if cfg.ReadabilityMinConfidence != 0.6 || cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("unexpected float overrides: %v %v", cfg.ReadabilityMinConfidence, cfg.APIRateLimitRPS)
	}
	if cfg.OCRBreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
}

func TestLoadFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv("OCR_TIMEOUT_SECONDS", "eight")
	t.Setenv("READABILITY_MIN_CONFIDENCE", "high")
	t.Setenv("OCR_BREAKER_ENABLED", "maybe")
	t.Setenv("OCR_LANGUAGES", " , ")

	cfg := Load()
	if cfg.OCRTimeoutSeconds != 8 {
		t.Fatalf("expected fallback timeout 8, got %d", cfg.OCRTimeoutSeconds)
	}
	if cfg.ReadabilityMinConfidence != 0.45 {
		t.Fatalf("expected fallback confidence 0.45, got %v", cfg.ReadabilityMinConfidence)
	}
	if !cfg.OCRBreakerEnabled {
		t.Fatalf("expected fallback breaker enabled")
	}
	if !reflect.DeepEqual(cfg.OCRLanguages, []string{"eng"}) {
		t.Fatalf("expected fallback languages, got %v", cfg.OCRLanguages)
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
)

const defaultCORSOrigin = "https://e201filems.infinityfree.me"

type Config struct {
	APIPort  string
	LogLevel string

	CORSAllowedOrigins []string

	StagingDir     string
	MaxUploadBytes int64

	APIMaxConnections      int
	APIRateLimitRPS        float64
	APIRateLimitBurst      int
	APIMaxInFlight         int
	APIBackpressureWaitMS  int
	APIShutdownTimeoutSecs int

	OCRTimeoutSeconds int
	OCRMaxDimension   int
	OCRLanguages      []string
	OCRPageSegMode    int

	ReadabilityMinConfidence float64
	ReadabilityMinTextLength int

	ClassifierRulesPath string

	OCRBreakerEnabled          bool
	OCRBreakerMinRequests      int
	OCRBreakerFailureRatio     float64
	OCRBreakerOpenTimeoutMS    int
	OCRBreakerHalfOpenMaxCalls int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "5000"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: mustEnvList("CORS_ALLOWED_ORIGINS", []string{defaultCORSOrigin}),

		StagingDir:     mustEnv("STAGING_DIR", ""),
		MaxUploadBytes: int64(mustEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		APIMaxConnections:      mustEnvInt("API_MAX_CONNECTIONS", 0),
		APIRateLimitRPS:        mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:      mustEnvInt("API_RATE_LIMIT_BURST", 10),
		APIMaxInFlight:         mustEnvInt("API_MAX_IN_FLIGHT", 0),
		APIBackpressureWaitMS:  mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250),
		APIShutdownTimeoutSecs: mustEnvInt("API_SHUTDOWN_TIMEOUT_SECONDS", 10),

		OCRTimeoutSeconds: mustEnvInt("OCR_TIMEOUT_SECONDS", 8),
		OCRMaxDimension:   mustEnvInt("OCR_MAX_DIMENSION", 1600),
		OCRLanguages:      mustEnvList("OCR_LANGUAGES", []string{"eng"}),
		OCRPageSegMode:    mustEnvInt("OCR_PAGE_SEG_MODE", 3),

		ReadabilityMinConfidence: mustEnvFloat("READABILITY_MIN_CONFIDENCE", 0.45),
		ReadabilityMinTextLength: mustEnvInt("READABILITY_MIN_TEXT_LENGTH", 25),

		ClassifierRulesPath: mustEnv("CLASSIFIER_RULES_PATH", ""),

		OCRBreakerEnabled:          mustEnvBool("OCR_BREAKER_ENABLED", true),
		OCRBreakerMinRequests:      mustEnvInt("OCR_BREAKER_MIN_REQUESTS", 10),
		OCRBreakerFailureRatio:     mustEnvFloat("OCR_BREAKER_FAILURE_RATIO", 0.5),
		OCRBreakerOpenTimeoutMS:    mustEnvInt("OCR_BREAKER_OPEN_TIMEOUT_MS", 30000),
		OCRBreakerHalfOpenMaxCalls: mustEnvInt("OCR_BREAKER_HALF_OPEN_MAX_CALLS", 2),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// mustEnvList splits a comma separated value, dropping blank items.
func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Package config loads service configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port string

	DetectorURL     string
	DetectorEnabled bool
	DetectorTimeout time.Duration

	ConfidenceThreshold float64
	OverlapThreshold    float64

	PriceModelPath string
	PriceModelKey  string

	GeminiAPIKey          string
	GeminiModel           string
	ValidationEnabled     bool
	ValidationTimeout     time.Duration
	ValidationConcurrency int

	CacheDBPath string

	ArtifactBucket     string
	ArtifactEndpoint   string
	ArtifactRegion     string
	ArtifactAccessKey  string
	ArtifactSecretKey  string
	ArtifactPrefix     string
	DetectorWeightsKey string
	DetectorWeightsPath string

	MaxUploadBytes int64
}

// LoadEnvFile loads variables from .env in the working directory. Errors are
// ignored since the file may not exist.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads the configuration. It returns an error for malformed values
// and for required values missing given the enabled features, so that bad
// deployments fail at startup instead of on the first request.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DetectorURL:     getEnv("DETECTOR_URL", "http://localhost:5000"),
		DetectorEnabled: getBool("DETECTOR_ENABLED", true),

		PriceModelPath: getEnv("PRICE_MODEL_PATH", "models/price_model.json"),
		PriceModelKey:  os.Getenv("PRICE_MODEL_KEY"),

		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ValidationEnabled: getBool("VALIDATION_ENABLED", true),

		CacheDBPath: os.Getenv("CACHE_DB_PATH"),

		ArtifactBucket:      os.Getenv("ARTIFACT_BUCKET"),
		ArtifactEndpoint:    os.Getenv("ARTIFACT_ENDPOINT"),
		ArtifactRegion:      getEnv("ARTIFACT_REGION", "us-east-1"),
		ArtifactAccessKey:   os.Getenv("ARTIFACT_ACCESS_KEY"),
		ArtifactSecretKey:   os.Getenv("ARTIFACT_SECRET_KEY"),
		ArtifactPrefix:      getEnv("ARTIFACT_PREFIX", "models/"),
		DetectorWeightsKey:  os.Getenv("DETECTOR_WEIGHTS_KEY"),
		DetectorWeightsPath: os.Getenv("DETECTOR_WEIGHTS_PATH"),
	}

	var err error
	if cfg.DetectorTimeout, err = getDuration("DETECTOR_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ValidationTimeout, err = getDuration("VALIDATION_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = getFloat("CONFIDENCE_THRESHOLD", 0.5); err != nil {
		return nil, err
	}
	if cfg.OverlapThreshold, err = getFloat("OVERLAP_THRESHOLD", 0.5); err != nil {
		return nil, err
	}
	if cfg.ValidationConcurrency, err = getInt("VALIDATION_CONCURRENCY", 3); err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if cfg.ValidationConcurrency < 1 {
		return nil, fmt.Errorf("VALIDATION_CONCURRENCY must be at least 1")
	}
	if cfg.ValidationEnabled && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when validation is enabled")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 10s: %w", key, err)
	}
	return d, nil
}

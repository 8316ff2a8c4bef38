package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/E-Waste-Bank-System/ebs-ai/artifacts"
	"github.com/E-Waste-Bank-System/ebs-ai/config"
	"github.com/E-Waste-Bank-System/ebs-ai/detector"
	"github.com/E-Waste-Bank-System/ebs-ai/llm"
	"github.com/E-Waste-Bank-System/ebs-ai/pricing"
	"github.com/E-Waste-Bank-System/ebs-ai/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Model artifacts come down before anything that depends on them loads.
	if cfg.ArtifactBucket != "" {
		if err := fetchArtifacts(ctx, cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to fetch model artifacts")
		}
	}

	// The price model is the one component without a feature flag: a broken
	// or missing artifact means the service cannot start.
	pricer, err := pricing.Load(cfg.PriceModelPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PriceModelPath).Msg("failed to load price model")
	}
	log.Info().Str("path", cfg.PriceModelPath).Str("currency", pricer.Currency()).
		Msg("price model loaded")

	var pipeline *Pipeline
	if cfg.DetectorEnabled {
		det := detector.NewClient(detector.ClientOpts{
			BaseURL: cfg.DetectorURL,
			Timeout: cfg.DetectorTimeout,
		})
		if err := det.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("url", cfg.DetectorURL).Msg("detector is not reachable")
		}
		log.Info().Str("url", cfg.DetectorURL).Msg("detector ready")

		validator, store, err := buildValidator(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize validator")
		}
		if store != nil {
			defer store.Close()
		}

		pipeline = NewPipeline(det, validator, pricer, PipelineConfig{
			ConfidenceThreshold:   cfg.ConfidenceThreshold,
			OverlapThreshold:      cfg.OverlapThreshold,
			ValidationTimeout:     cfg.ValidationTimeout,
			ValidationConcurrency: cfg.ValidationConcurrency,
		})
	} else {
		log.Warn().Msg("object detection disabled, image endpoints will answer 503")
	}

	server := NewServer(cfg, pipeline, pricer)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Run)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}

// buildValidator initializes the Gemini validator and, when a cache path is
// configured, wraps it with the SQLite-backed cache. Returns a nil validator
// when validation is disabled.
func buildValidator(ctx context.Context, cfg *config.Config) (llm.Validator, *storage.SQLiteStore, error) {
	if !cfg.ValidationEnabled {
		log.Warn().Msg("external validation disabled, detections will use mapped categories as-is")
		return nil, nil, nil
	}

	gemini, err := llm.NewGeminiValidator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("model", cfg.GeminiModel).Msg("gemini validator initialized")

	if cfg.CacheDBPath == "" {
		return gemini, nil, nil
	}
	store, err := storage.NewSQLiteStore(cfg.CacheDBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("dbPath", cfg.CacheDBPath).Msg("validation cache enabled")
	return llm.NewCachedValidator(gemini, store), store, nil
}

// fetchArtifacts downloads configured model files that are not already on
// disk. Detector weights are fetched for the inference runtime's benefit
// when it shares a volume with this service.
func fetchArtifacts(ctx context.Context, cfg *config.Config) error {
	fetcher, err := artifacts.New(ctx, artifacts.Opts{
		Bucket:    cfg.ArtifactBucket,
		Endpoint:  cfg.ArtifactEndpoint,
		Region:    cfg.ArtifactRegion,
		AccessKey: cfg.ArtifactAccessKey,
		SecretKey: cfg.ArtifactSecretKey,
		Prefix:    cfg.ArtifactPrefix,
	})
	if err != nil {
		return err
	}

	if cfg.PriceModelKey != "" {
		if err := fetcher.Fetch(ctx, cfg.PriceModelKey, cfg.PriceModelPath); err != nil {
			return err
		}
	}
	if cfg.DetectorWeightsKey != "" && cfg.DetectorWeightsPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DetectorWeightsPath), 0755); err != nil {
			return err
		}
		if err := fetcher.Fetch(ctx, cfg.DetectorWeightsKey, cfg.DetectorWeightsPath); err != nil {
			return err
		}
	}
	return nil
}

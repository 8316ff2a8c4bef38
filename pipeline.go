package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/E-Waste-Bank-System/ebs-ai/detector"
	"github.com/E-Waste-Bank-System/ebs-ai/llm"
	"github.com/E-Waste-Bank-System/ebs-ai/pricing"
	"github.com/E-Waste-Bank-System/ebs-ai/taxonomy"
)

// Per-detection outcome states. A failed detection never aborts the others;
// it just carries its own status.
const (
	StatusPriced         = "priced"
	StatusUnclassifiable = "unclassifiable"
	StatusUnpriced       = "unpriced"
)

// Response-level states.
const (
	ResponseOK      = "ok"
	ResponsePartial = "partial"
)

// Detection sources reported to the caller.
const (
	SourceDetector          = "detector"
	SourceValidator         = "validator"
	SourceValidationSkipped = "detector (validation skipped)"
)

// ValidationOutcome is the per-detection view of the external validation
// call, including the degraded case where it never ran.
type ValidationOutcome struct {
	Skipped           bool   `json:"skipped"`
	Approved          bool   `json:"approved"`
	CorrectedCategory string `json:"corrected_category,omitempty"`
	Rationale         string `json:"rationale,omitempty"`
}

// PredictionResult is the full analysis of one detection.
type PredictionResult struct {
	ID            string              `json:"id"`
	Detection     detector.Detection  `json:"detection"`
	Status        string              `json:"status"`
	Category      string              `json:"category,omitempty"`
	Condition     *taxonomy.Condition `json:"condition,omitempty"`
	ConditionNote string              `json:"condition_note,omitempty"`
	Validation    *ValidationOutcome  `json:"validation,omitempty"`
	Price         *pricing.Estimate   `json:"price,omitempty"`
	Source        string              `json:"source"`
	RiskLevel     int                 `json:"risk_level,omitempty"`
	Suggestions   []string            `json:"suggestions,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// PredictionResponse is the aggregate answer for one uploaded image.
type PredictionResponse struct {
	Status  string             `json:"status"`
	Results []PredictionResult `json:"results"`
}

// Pipeline sequences detection, category mapping, external validation and
// price prediction for one request at a time. It holds no per-request state;
// the model handles are read-only and shared across requests.
type Pipeline struct {
	detector  detector.Detector
	validator llm.Validator // nil disables validation
	pricer    *pricing.Predictor

	confidenceThreshold   float64
	overlapThreshold      float64
	validationTimeout     time.Duration
	validationConcurrency int
}

// NewPipeline assembles the orchestration service. A nil validator disables
// the validation stage; the detector must be non-nil (endpoints depending on
// it are gated off before the pipeline is reached when it is disabled).
func NewPipeline(det detector.Detector, validator llm.Validator, pricer *pricing.Predictor, cfg PipelineConfig) *Pipeline {
	concurrency := cfg.ValidationConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		detector:              det,
		validator:             validator,
		pricer:                pricer,
		confidenceThreshold:   cfg.ConfidenceThreshold,
		overlapThreshold:      cfg.OverlapThreshold,
		validationTimeout:     cfg.ValidationTimeout,
		validationConcurrency: concurrency,
	}
}

// PipelineConfig carries the orchestration knobs.
type PipelineConfig struct {
	ConfidenceThreshold   float64
	OverlapThreshold      float64
	ValidationTimeout     time.Duration
	ValidationConcurrency int
}

// Detect runs detection only: decode, confidence filter, overlap
// suppression. Used by both Predict and the /object endpoint so the two
// always agree on what counts as a detection.
func (p *Pipeline) Detect(ctx context.Context, imageData []byte) ([]detector.Detection, error) {
	if _, err := detector.DecodeImage(imageData); err != nil {
		return nil, err
	}

	detections, err := p.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detection failed: %w", err)
	}

	detections = detector.FilterByConfidence(detections, p.confidenceThreshold)
	detections = detector.FilterOverlapping(detections, p.overlapThreshold)
	return detections, nil
}

// Predict runs the complete pipeline on one image. Detections are processed
// independently: mapping, validation and pricing failures degrade that
// detection's result, never the whole request. An error return means the
// request itself failed (undecodable image, detector down) before any
// per-detection work.
func (p *Pipeline) Predict(ctx context.Context, imageData []byte) (*PredictionResponse, error) {
	img, err := detector.DecodeImage(imageData)
	if err != nil {
		return nil, err
	}

	detections, err := p.Detect(ctx, imageData)
	if err != nil {
		return nil, err
	}
	if len(detections) == 0 {
		return &PredictionResponse{Status: ResponseOK, Results: []PredictionResult{}}, nil
	}

	// Validation calls for different detections have no ordering dependency
	// and dominate latency, so they fan out under a concurrency cap. Each
	// worker writes only its own slot, keeping output order equal to
	// detection order.
	results := make([]PredictionResult, len(detections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.validationConcurrency)
	for i := range detections {
		g.Go(func() error {
			results[i] = p.processDetection(gctx, img, detections[i])
			return nil
		})
	}
	_ = g.Wait()

	status := ResponseOK
	for _, r := range results {
		if r.Status != StatusPriced {
			status = ResponsePartial
			break
		}
	}
	return &PredictionResponse{Status: status, Results: results}, nil
}

// processDetection takes one detection through mapping, validation,
// condition assessment and pricing.
func (p *Pipeline) processDetection(ctx context.Context, img image.Image, det detector.Detection) PredictionResult {
	res := PredictionResult{
		ID:        newID(),
		Detection: det,
		Source:    SourceDetector,
	}

	category, err := taxonomy.CategoryFor(det.Label)
	if err != nil {
		res.Status = StatusUnclassifiable
		res.Error = err.Error()
		log.Warn().Str("label", det.Label).Msg("detection has no price category")
		return res
	}

	cond := taxonomy.DefaultCondition()
	outcome := &ValidationOutcome{Skipped: true}

	if p.validator != nil {
		category, cond, res.ConditionNote, outcome = p.validate(ctx, img, det, category)
	}
	if outcome.Skipped {
		res.Source = SourceValidationSkipped
	} else if outcome.CorrectedCategory != "" {
		res.Source = SourceValidator
	}

	res.Category = category
	res.Condition = &cond
	res.Validation = outcome
	res.RiskLevel = taxonomy.RiskLevel(category, det.Confidence)
	res.Suggestions = taxonomy.Suggestions(res.RiskLevel)

	estimate, err := p.pricer.Estimate(category, cond)
	if err != nil {
		res.Status = StatusUnpriced
		res.Error = err.Error()
		log.Warn().Err(err).Str("category", category).Msg("price prediction failed for detection")
		return res
	}
	res.Price = &estimate
	res.Status = StatusPriced
	return res
}

// validate runs the external collaborator for one detection. Everything in
// here is advisory: any failure falls back to the candidate category and the
// default condition, recorded as a skipped validation.
func (p *Pipeline) validate(ctx context.Context, img image.Image, det detector.Detection, candidate string) (string, taxonomy.Condition, string, *ValidationOutcome) {
	cond := taxonomy.DefaultCondition()
	skipped := &ValidationOutcome{Skipped: true}

	if !detector.CropLargeEnough(det.Box) {
		log.Debug().Str("label", det.Label).Msg("crop too small for validation")
		return candidate, cond, "", skipped
	}
	crop, err := detector.Crop(img, det.Box)
	if err != nil {
		log.Warn().Err(err).Str("label", det.Label).Msg("failed to crop detection")
		return candidate, cond, "", skipped
	}

	vctx, cancel := context.WithTimeout(ctx, p.validationTimeout)
	defer cancel()

	result, err := p.validator.Validate(vctx, crop, det.Label, candidate)
	if err != nil {
		// External validation is advisory: keep the mapper's category.
		log.Warn().Err(err).Str("label", det.Label).Str("candidate", candidate).
			Msg("validation call failed, using candidate category")
		return candidate, cond, "", skipped
	}

	category := candidate
	if result.CorrectedCategory != "" {
		log.Info().Str("from", candidate).Str("to", result.CorrectedCategory).
			Msg("validator corrected category")
		category = result.CorrectedCategory
	}
	outcome := &ValidationOutcome{
		Approved:          result.Approved,
		CorrectedCategory: result.CorrectedCategory,
		Rationale:         result.Rationale,
	}

	actx, acancel := context.WithTimeout(ctx, p.validationTimeout)
	defer acancel()
	note := ""
	if level, n, err := p.validator.AssessCondition(actx, crop, category); err != nil {
		log.Warn().Err(err).Str("category", category).Msg("condition assessment failed, using default")
	} else {
		cond.Grade = taxonomy.GradeForDamage(level)
		note = n
	}

	return category, cond, note, outcome
}

// IsBadImage reports whether err means the uploaded bytes were not a
// decodable image.
func IsBadImage(err error) bool {
	return errors.Is(err, detector.ErrBadImage)
}

func newID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

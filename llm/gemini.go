package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/E-Waste-Bank-System/ebs-ai/taxonomy"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.30 // $0.30 per 1M input tokens (text/image)
	geminiOutputPricePerMillion = 2.50 // $2.50 per 1M output tokens
)

var validationPrompt = dedent.Dedent(`
	Analyze this image and verify if the detected object matches the predicted category.

	Detector label: %s
	Candidate category: %s

	Your task:
	1. Identify the main e-waste object in this image
	2. Determine if it matches the candidate category: "%s"
	3. If incorrect, suggest the best matching category from this list: %s

	Respond in this exact JSON format:
	{"object_identified": "what you see", "is_category_correct": true, "correct_category": "category from the list or null", "reasoning": "brief explanation"}

	Only use categories from the provided list. Respond ONLY with the JSON object, no markdown or other text.`)

var conditionPrompt = dedent.Dedent(`
	Assess the physical condition of the %s in this image for resale purposes.

	Consider visible damage, missing parts, dust and rust.

	Respond in this exact JSON format:
	{"damage_level": 3, "note": "brief justification"}

	damage_level is an integer from 1 (excellent, like new) to 5 (severe damage or incomplete).
	Respond ONLY with the JSON object, no markdown or other text.`)

// GeminiValidator validates detections with Google's Gemini API.
type GeminiValidator struct {
	client *genai.Client
	model  string
}

// NewGeminiValidator creates a Gemini-backed validator. An empty model
// selects the default.
func NewGeminiValidator(ctx context.Context, apiKey, model string) (*GeminiValidator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiValidator{client: client, model: model}, nil
}

// Validate implements Validator.
func (g *GeminiValidator) Validate(ctx context.Context, crop []byte, label, candidate string) (*Result, error) {
	categories := strings.Join(taxonomy.Categories(), ", ")
	prompt := fmt.Sprintf(validationPrompt, label, candidate, candidate, categories)

	text, err := g.generate(ctx, prompt, crop, "category validation")
	if err != nil {
		return nil, err
	}

	result, err := parseValidation(text, candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	return result, nil
}

// AssessCondition implements Validator.
func (g *GeminiValidator) AssessCondition(ctx context.Context, crop []byte, category string) (int, string, error) {
	prompt := fmt.Sprintf(conditionPrompt, category)

	text, err := g.generate(ctx, prompt, crop, "condition assessment")
	if err != nil {
		return 0, "", err
	}

	level, note, err := parseCondition(text)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrRemote, err)
	}
	return level, note, nil
}

// generate runs one prompt+image round trip and returns the raw text.
func (g *GeminiValidator) generate(ctx context.Context, prompt string, crop []byte, op string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		{InlineData: &genai.Blob{Data: crop, MIMEType: "image/jpeg"}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemote, err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrRemote)
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateGeminiCost(usage.InputTokens, usage.OutputTokens)
	}
	log.Info().
		Str("model", g.model).
		Str("op", op).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("validation llm call")

	return result.Text(), nil
}

func calculateGeminiCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * geminiInputPricePerMillion
	outputCost := float64(outputTokens) / 1_000_000 * geminiOutputPricePerMillion
	return inputCost + outputCost
}

// extractJSON pulls the JSON object out of a possibly chatty response,
// tolerating markdown code fences and surrounding prose.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response: %s", text)
	}
	return text[start : end+1], nil
}

func parseValidation(text, candidate string) (*Result, error) {
	payload, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var resp struct {
		ObjectIdentified  string  `json:"object_identified"`
		IsCategoryCorrect bool    `json:"is_category_correct"`
		CorrectCategory   *string `json:"correct_category"`
		Reasoning         string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse validation JSON: %w (response: %s)", err, payload)
	}

	if resp.IsCategoryCorrect {
		return &Result{Approved: true, Rationale: resp.Reasoning}, nil
	}

	// A correction outside the fixed taxonomy is unusable; keep the
	// candidate and surface only the rationale.
	if resp.CorrectCategory != nil && taxonomy.IsPriceCategory(*resp.CorrectCategory) && *resp.CorrectCategory != candidate {
		return &Result{CorrectedCategory: *resp.CorrectCategory, Rationale: resp.Reasoning}, nil
	}
	return &Result{Rationale: resp.Reasoning}, nil
}

func parseCondition(text string) (int, string, error) {
	payload, err := extractJSON(text)
	if err != nil {
		return 0, "", err
	}

	var resp struct {
		DamageLevel int    `json:"damage_level"`
		Note        string `json:"note"`
	}
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return 0, "", fmt.Errorf("failed to parse condition JSON: %w (response: %s)", err, payload)
	}
	if resp.DamageLevel < 1 || resp.DamageLevel > 5 {
		return 0, "", fmt.Errorf("damage_level %d out of range", resp.DamageLevel)
	}
	return resp.DamageLevel, resp.Note, nil
}

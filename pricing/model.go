// Package pricing wraps the tabular price regression artifact. The artifact
// is a JSON file exported from the training pipeline: an anchor price per
// category plus multiplier tables for the condition attributes. It is loaded
// once at startup and never mutated after that.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/E-Waste-Bank-System/ebs-ai/taxonomy"
)

// ErrUnsupportedCategory is returned for categories outside the model's
// trained domain.
var ErrUnsupportedCategory = errors.New("category not supported by price model")

type model struct {
	Currency     string                      `json:"currency"`
	BasePrices   map[string]int64            `json:"base_prices"`
	SizeFactors  map[taxonomy.Size]float64   `json:"size_factors"`
	WearFactors  map[taxonomy.Wear]float64   `json:"wear_factors"`
	GradeFactors map[taxonomy.Grade]float64  `json:"grade_factors"`
}

// Load reads and verifies the price model artifact. The category domain of
// the artifact must match the taxonomy exactly; a mismatch means the service
// would accept categories it cannot price (or the reverse), so it refuses to
// load.
func Load(path string) (*Predictor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price model: %w", err)
	}

	var m model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse price model %s: %w", path, err)
	}

	if m.Currency == "" {
		return nil, fmt.Errorf("price model %s: missing currency", path)
	}
	for _, cat := range taxonomy.Categories() {
		if _, ok := m.BasePrices[cat]; !ok {
			return nil, fmt.Errorf("price model %s: no base price for category %q", path, cat)
		}
	}
	for cat := range m.BasePrices {
		if !taxonomy.IsPriceCategory(cat) {
			return nil, fmt.Errorf("price model %s: unknown category %q", path, cat)
		}
	}
	for _, s := range []taxonomy.Size{taxonomy.SizeSmall, taxonomy.SizeMedium, taxonomy.SizeLarge} {
		if _, ok := m.SizeFactors[s]; !ok {
			return nil, fmt.Errorf("price model %s: missing size factor %q", path, s)
		}
	}
	for _, w := range []taxonomy.Wear{taxonomy.WearNone, taxonomy.WearLight, taxonomy.WearModerate, taxonomy.WearHeavy} {
		if _, ok := m.WearFactors[w]; !ok {
			return nil, fmt.Errorf("price model %s: missing wear factor %q", path, w)
		}
	}
	for _, g := range []taxonomy.Grade{taxonomy.GradeExcellent, taxonomy.GradeGood, taxonomy.GradeFair, taxonomy.GradePoor, taxonomy.GradeBroken} {
		if _, ok := m.GradeFactors[g]; !ok {
			return nil, fmt.Errorf("price model %s: missing grade factor %q", path, g)
		}
	}

	return &Predictor{m: m}, nil
}

package pricing

import (
	"fmt"
	"math"

	"github.com/E-Waste-Bank-System/ebs-ai/taxonomy"
)

// Estimate is the predictor's output: a price in the model's currency.
type Estimate struct {
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
}

// Predictor evaluates the loaded price model. It is read-only after Load and
// safe for concurrent use.
type Predictor struct {
	m model
}

// Estimate prices a category under the given condition. The result is
// deterministic: the same category and condition always produce the same
// price for a given artifact.
func (p *Predictor) Estimate(category string, cond taxonomy.Condition) (Estimate, error) {
	base, ok := p.m.BasePrices[category]
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %q", ErrUnsupportedCategory, category)
	}
	if err := cond.Validate(); err != nil {
		return Estimate{}, err
	}

	factor := p.m.SizeFactors[cond.Size] * p.m.WearFactors[cond.Wear] * p.m.GradeFactors[cond.Grade]
	price := int64(math.Round(float64(base) * factor))
	if price < 0 {
		price = 0
	}

	return Estimate{Price: price, Currency: p.m.Currency}, nil
}

// Currency returns the artifact's currency code.
func (p *Predictor) Currency() string {
	return p.m.Currency
}

// Supports reports whether the model can price the category.
func (p *Predictor) Supports(category string) bool {
	_, ok := p.m.BasePrices[category]
	return ok
}

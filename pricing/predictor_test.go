package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/E-Waste-Bank-System/ebs-ai/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestModel(t *testing.T) *Predictor {
	t.Helper()
	p, err := Load(filepath.Join("testdata", "price_model.json"))
	require.NoError(t, err)
	return p
}

func TestLoadCoversTaxonomy(t *testing.T) {
	p := loadTestModel(t)
	for _, cat := range taxonomy.Categories() {
		assert.True(t, p.Supports(cat), "category %s", cat)
	}
	assert.Equal(t, "IDR", p.Currency())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)
}

func TestLoadRejectsCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsIncompleteCategoryDomain(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "price_model.json"))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))

	var prices map[string]int64
	require.NoError(t, json.Unmarshal(raw["base_prices"], &prices))
	delete(prices, "Laptop")
	raw["base_prices"], err = json.Marshal(prices)
	require.NoError(t, err)

	b, err = json.Marshal(raw)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "partial.json")
	require.NoError(t, os.WriteFile(path, b, 0644))

	_, err = Load(path)
	assert.ErrorContains(t, err, "Laptop")
}

func TestEstimateDeterministic(t *testing.T) {
	p := loadTestModel(t)
	cond := taxonomy.Condition{Size: taxonomy.SizeLarge, Wear: taxonomy.WearLight, Grade: taxonomy.GradeFair}

	first, err := p.Estimate("Laptop", cond)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := p.Estimate("Laptop", cond)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "IDR", first.Currency)
	assert.Positive(t, first.Price)
}

func TestEstimateAppliesConditionFactors(t *testing.T) {
	p := loadTestModel(t)

	pristine, err := p.Estimate("TV", taxonomy.Condition{Size: taxonomy.SizeMedium, Wear: taxonomy.WearNone, Grade: taxonomy.GradeExcellent})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), pristine.Price)

	wrecked, err := p.Estimate("TV", taxonomy.Condition{Size: taxonomy.SizeMedium, Wear: taxonomy.WearHeavy, Grade: taxonomy.GradeBroken})
	require.NoError(t, err)
	assert.Less(t, wrecked.Price, pristine.Price)
}

func TestEstimateDefaultsEmptyCondition(t *testing.T) {
	p := loadTestModel(t)
	got, err := p.Estimate("Mouse", taxonomy.Condition{})
	require.NoError(t, err)
	want, err := p.Estimate("Mouse", taxonomy.DefaultCondition())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEstimateUnsupportedCategory(t *testing.T) {
	p := loadTestModel(t)
	_, err := p.Estimate("Toaster Oven Deluxe", taxonomy.DefaultCondition())
	assert.ErrorIs(t, err, ErrUnsupportedCategory)
}

func TestEstimateInvalidCondition(t *testing.T) {
	p := loadTestModel(t)
	_, err := p.Estimate("Mouse", taxonomy.Condition{Size: "colossal"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedCategory)
}

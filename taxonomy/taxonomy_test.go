package taxonomy

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	c, err := CategoryFor("Laptop")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", c)

	c, err = CategoryFor("Flat-Panel-TV")
	require.NoError(t, err)
	assert.Equal(t, "TV", c)

	// Boiler historically got misrouted to Printer, make sure it stays put
	c, err = CategoryFor("Boiler")
	require.NoError(t, err)
	assert.Equal(t, "Kompor Listrik", c)

	_, err = CategoryFor("Toothbrush")
	assert.ErrorIs(t, err, ErrUnmappedLabel)
}

func TestEveryLabelMapsToAPriceCategory(t *testing.T) {
	for _, label := range Labels() {
		c, err := CategoryFor(label)
		require.NoError(t, err, "label %s", label)
		assert.True(t, IsPriceCategory(c), "label %s maps to unknown category %s", label, c)
	}
}

func TestCategoriesSortedAndStable(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 38)
	assert.True(t, sort.StringsAreSorted(cats))
	assert.Equal(t, cats, Categories())
}

func TestConditionValidate(t *testing.T) {
	c := Condition{}
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultCondition(), c)

	c = Condition{Size: SizeLarge, Wear: WearHeavy, Grade: GradeBroken}
	require.NoError(t, c.Validate())

	c = Condition{Size: "gigantic"}
	assert.Error(t, c.Validate())

	c = Condition{Wear: "rusty"}
	assert.Error(t, c.Validate())

	c = Condition{Grade: "mint"}
	assert.Error(t, c.Validate())
}

func TestGradeForDamage(t *testing.T) {
	assert.Equal(t, GradeExcellent, GradeForDamage(0))
	assert.Equal(t, GradeExcellent, GradeForDamage(1))
	assert.Equal(t, GradeGood, GradeForDamage(2))
	assert.Equal(t, GradeFair, GradeForDamage(3))
	assert.Equal(t, GradePoor, GradeForDamage(4))
	assert.Equal(t, GradeBroken, GradeForDamage(5))
	assert.Equal(t, GradeBroken, GradeForDamage(9))
}

func TestRiskLevel(t *testing.T) {
	assert.Equal(t, 5, RiskLevel("AC", 0.9))
	assert.Equal(t, 2, RiskLevel("Mouse", 0.9))
	// unknown categories default to the middle of the scale
	assert.Equal(t, 3, RiskLevel("Solder", 0.9))
	// low confidence bumps risk, capped at 5
	assert.Equal(t, 3, RiskLevel("Mouse", 0.2))
	assert.Equal(t, 5, RiskLevel("AC", 0.2))
}

func TestSuggestionsNonEmpty(t *testing.T) {
	for risk := 1; risk <= 5; risk++ {
		assert.NotEmpty(t, Suggestions(risk))
	}
}

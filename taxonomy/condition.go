package taxonomy

import "fmt"

// Size, Wear and Grade are the condition attributes the price model accepts.
// They form a small fixed domain; anything outside it is rejected at the API
// boundary rather than deep inside the predictor.
type (
	Size  string
	Wear  string
	Grade string
)

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

const (
	WearNone     Wear = "none"
	WearLight    Wear = "light"
	WearModerate Wear = "moderate"
	WearHeavy    Wear = "heavy"
)

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradePoor      Grade = "poor"
	GradeBroken    Grade = "broken"
)

// Condition describes the physical state of an item: overall size class,
// dust/rust level and physical grade.
type Condition struct {
	Size  Size  `json:"size"`
	Wear  Wear  `json:"wear"`
	Grade Grade `json:"grade"`
}

// DefaultCondition is used when the caller provides no condition attributes.
func DefaultCondition() Condition {
	return Condition{Size: SizeMedium, Wear: WearNone, Grade: GradeGood}
}

// Validate checks every attribute against its enumerated domain. Empty
// fields are filled from DefaultCondition so partial input is accepted.
func (c *Condition) Validate() error {
	def := DefaultCondition()
	if c.Size == "" {
		c.Size = def.Size
	}
	if c.Wear == "" {
		c.Wear = def.Wear
	}
	if c.Grade == "" {
		c.Grade = def.Grade
	}
	switch c.Size {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		return fmt.Errorf("invalid size %q", c.Size)
	}
	switch c.Wear {
	case WearNone, WearLight, WearModerate, WearHeavy:
	default:
		return fmt.Errorf("invalid wear %q", c.Wear)
	}
	switch c.Grade {
	case GradeExcellent, GradeGood, GradeFair, GradePoor, GradeBroken:
	default:
		return fmt.Errorf("invalid grade %q", c.Grade)
	}
	return nil
}

// GradeForDamage converts the validator's 1-5 damage scale to a grade.
// Out-of-range values clamp to the nearest end of the scale.
func GradeForDamage(level int) Grade {
	switch {
	case level <= 1:
		return GradeExcellent
	case level == 2:
		return GradeGood
	case level == 3:
		return GradeFair
	case level == 4:
		return GradePoor
	default:
		return GradeBroken
	}
}

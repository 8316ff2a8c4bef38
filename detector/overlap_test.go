package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoU(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 100, Height: 100}

	assert.Equal(t, 1.0, a.IoU(a))
	assert.Equal(t, 0.0, a.IoU(Box{X: 200, Y: 200, Width: 50, Height: 50}))

	// half overlap: intersection 5000, union 15000
	b := Box{X: 50, Y: 0, Width: 100, Height: 100}
	assert.InDelta(t, 1.0/3.0, a.IoU(b), 1e-9)

	// degenerate box
	assert.Equal(t, 0.0, a.IoU(Box{X: 10, Y: 10, Width: 0, Height: 0}))
}

func TestFilterOverlappingKeepsHighestConfidence(t *testing.T) {
	weak := Detection{Label: "CRT-TV", Confidence: 0.55, Box: Box{X: 5, Y: 5, Width: 100, Height: 100}}
	strong := Detection{Label: "Flat-Panel-TV", Confidence: 0.92, Box: Box{X: 0, Y: 0, Width: 100, Height: 100}}
	separate := Detection{Label: "Computer-Mouse", Confidence: 0.7, Box: Box{X: 400, Y: 400, Width: 50, Height: 40}}

	got := FilterOverlapping([]Detection{weak, strong, separate}, 0.5)
	assert.Equal(t, []Detection{strong, separate}, got)
}

func TestFilterOverlappingDeterministicOnTies(t *testing.T) {
	a := Detection{Label: "HDD", Confidence: 0.8, Box: Box{X: 0, Y: 0, Width: 100, Height: 100}}
	b := Detection{Label: "SSD", Confidence: 0.8, Box: Box{X: 10, Y: 0, Width: 100, Height: 100}}

	first := FilterOverlapping([]Detection{a, b}, 0.5)
	second := FilterOverlapping([]Detection{b, a}, 0.5)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
	// tie broken by label
	assert.Equal(t, "HDD", first[0].Label)
}

func TestFilterOverlappingDisjointBoxesUntouched(t *testing.T) {
	dets := []Detection{
		{Label: "Laptop", Confidence: 0.9, Box: Box{X: 0, Y: 0, Width: 50, Height: 50}},
		{Label: "Router", Confidence: 0.6, Box: Box{X: 100, Y: 100, Width: 50, Height: 50}},
	}
	assert.Len(t, FilterOverlapping(dets, 0.5), 2)
}

func TestFilterOverlappingEmpty(t *testing.T) {
	assert.Nil(t, FilterOverlapping(nil, 0.5))
}

func TestFilterByConfidence(t *testing.T) {
	dets := []Detection{
		{Label: "Laptop", Confidence: 0.9},
		{Label: "Router", Confidence: 0.49},
		{Label: "Mouse", Confidence: 0.5},
	}
	got := FilterByConfidence(dets, 0.5)
	assert.Len(t, got, 2)
	assert.Equal(t, "Laptop", got[0].Label)
	assert.Equal(t, "Mouse", got[1].Label)
}

package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		label   Label
		subBand SubBand
	}{
		{"zero", 0, LabelSafe, SubBandSafe},
		{"just under low", 0.0999, LabelSafe, SubBandSafe},
		{"low1 boundary", 0.10, LabelLow, SubBandLow1},
		{"low2 boundary", 0.15, LabelLow, SubBandLow2},
		{"low3 boundary", 0.31, LabelLow, SubBandLow3},
		{"medium1 boundary", 0.70, LabelMedium, SubBandMedium1},
		{"medium2 boundary", 1.82, LabelMedium, SubBandMedium2},
		{"medium3 boundary", 2.89, LabelMedium, SubBandMedium3},
		{"high1 boundary", 4.39, LabelHigh, SubBandHigh1},
		{"five percent", 5.0, LabelHigh, SubBandHigh1},
		{"high2 boundary", 10.00, LabelHigh, SubBandHigh2},
		{"high3 boundary", 23.14, LabelHigh, SubBandHigh3},
		{"critical boundary", 35.32, LabelCritical, SubBandCritical},
		{"far above", 500, LabelCritical, SubBandCritical},
		{"infinite", math.Inf(1), LabelCritical, SubBandCritical},
		{"negative", -0.5, LabelError, SubBandError},
		{"nan", math.NaN(), LabelError, SubBandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.percent)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.subBand, got.SubBand)
		})
	}
}

func TestClassify_TotalAndMonotonic(t *testing.T) {
	prev := -1
	for p := 0.0; p < 60; p += 0.01 {
		c := Classify(p)
		assert.NotEqual(t, LabelError, c.Label, "percent %v should classify", p)
		assert.GreaterOrEqual(t, c.Score, prev, "score must not decrease at %v", p)
		prev = c.Score
	}
}

func TestBands_Contiguous(t *testing.T) {
	assert.Equal(t, 0.0, Bands[0].Low)
	for i := 1; i < len(Bands); i++ {
		assert.Equal(t, Bands[i-1].High, Bands[i].Low, "gap before band %d", i)
	}
	assert.True(t, math.IsInf(Bands[len(Bands)-1].High, 1))
}

func TestRate(t *testing.T) {
	assert.InDelta(t, 0.05, Rate(5, 100), 1e-12)
	assert.Equal(t, 0.0, Rate(5, 0))
	assert.Equal(t, 0.0, Rate(-10, 100), "negative corrections clamp to zero")
	assert.Equal(t, 0.0, Rate(0, 100))
}

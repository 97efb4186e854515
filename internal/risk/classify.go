// Package risk maps a location's daily case growth to a banded risk classification.
package risk

import "math"

// Label is the coarse severity shown to users.
type Label string

// Risk labels.
const (
	LabelSafe     Label = "Safe"
	LabelLow      Label = "Low"
	LabelMedium   Label = "Medium"
	LabelHigh     Label = "High"
	LabelCritical Label = "Critical"
	LabelError    Label = "Error"
)

// SubBand identifies one row of the classification table. Presentation layers
// key their colors on it.
type SubBand string

// Sub-band identifiers, in increasing severity.
const (
	SubBandSafe     SubBand = "safe"
	SubBandLow1     SubBand = "low1"
	SubBandLow2     SubBand = "low2"
	SubBandLow3     SubBand = "low3"
	SubBandMedium1  SubBand = "medium1"
	SubBandMedium2  SubBand = "medium2"
	SubBandMedium3  SubBand = "medium3"
	SubBandHigh1    SubBand = "high1"
	SubBandHigh2    SubBand = "high2"
	SubBandHigh3    SubBand = "high3"
	SubBandCritical SubBand = "critical"
	SubBandError    SubBand = "error"
)

// Classification is the result of Classify.
type Classification struct {
	Label   Label   `json:"label" yaml:"label"`
	SubBand SubBand `json:"sub_band" yaml:"sub_band"`
	Score   int     `json:"score" yaml:"score"` // 0..10 severity order, -1 for errors
}

// Band is a half-open [Low, High) interval over the risk rate percent.
type Band struct {
	Low     float64
	High    float64
	Label   Label
	SubBand SubBand
}

// Bands is the classification table, contiguous and unbounded above.
var Bands = []Band{
	{0, 0.10, LabelSafe, SubBandSafe},
	{0.10, 0.15, LabelLow, SubBandLow1},
	{0.15, 0.31, LabelLow, SubBandLow2},
	{0.31, 0.70, LabelLow, SubBandLow3},
	{0.70, 1.82, LabelMedium, SubBandMedium1},
	{1.82, 2.89, LabelMedium, SubBandMedium2},
	{2.89, 4.39, LabelMedium, SubBandMedium3},
	{4.39, 10.00, LabelHigh, SubBandHigh1},
	{10.00, 23.14, LabelHigh, SubBandHigh2},
	{23.14, 35.32, LabelHigh, SubBandHigh3},
	{35.32, math.Inf(1), LabelCritical, SubBandCritical},
}

// ErrorClassification is returned for inputs outside the table (negative or NaN).
var ErrorClassification = Classification{Label: LabelError, SubBand: SubBandError, Score: -1}

// Classify returns the classification for riskRatePercent (100 * riskRate).
func Classify(riskRatePercent float64) Classification {
	for i, b := range Bands {
		if riskRatePercent >= b.Low && riskRatePercent < b.High {
			return Classification{Label: b.Label, SubBand: b.SubBand, Score: i}
		}
	}
	// +Inf falls past the last half-open band.
	if math.IsInf(riskRatePercent, 1) {
		last := len(Bands) - 1
		return Classification{Label: Bands[last].Label, SubBand: Bands[last].SubBand, Score: last}
	}
	return ErrorClassification
}

// Rate computes newCases / totalCases, clamped to zero. A zero total yields 0.
func Rate(newCases, totalCases int64) float64 {
	if totalCases == 0 {
		return 0
	}
	r := float64(newCases) / float64(totalCases)
	if r < 0 {
		return 0
	}
	return r
}
